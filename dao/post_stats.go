package dao

import (
	"Pulse/models"
	"context"

	"gorm.io/gorm"
)

type PostStatsDAO struct {
	Repo[models.PostStats]
}

func NewPostStatsDAO(db *gorm.DB) *PostStatsDAO {
	return &PostStatsDAO{Repo: NewRepo[models.PostStats](db)}
}

// IncrReactionCount 反应计数增减, 避免负数
func (d *PostStatsDAO) IncrReactionCount(ctx context.Context, tx *gorm.DB, postID uint64, delta int64) error {
	// 使用原生 SQL 做 UPSERT 并限制不为负
	return tx.WithContext(ctx).Exec(
		"INSERT INTO post_stats (post_id, reaction_count, updated_at) VALUES (?, GREATEST(?, 0), NOW()) "+
			"ON DUPLICATE KEY UPDATE reaction_count = GREATEST(reaction_count + ?, 0), updated_at = NOW()",
		postID, delta, delta,
	).Error
}

// IncrCommentCount 评论计数增减, 避免负数
func (d *PostStatsDAO) IncrCommentCount(ctx context.Context, tx *gorm.DB, postID uint64, delta int64) error {
	return tx.WithContext(ctx).Exec(
		"INSERT INTO post_stats (post_id, comment_count, updated_at) VALUES (?, GREATEST(?, 0), NOW()) "+
			"ON DUPLICATE KEY UPDATE comment_count = GREATEST(comment_count + ?, 0), updated_at = NOW()",
		postID, delta, delta,
	).Error
}

func (d *PostStatsDAO) GetByPostID(ctx context.Context, postID uint64) (*models.PostStats, error) {
	var item models.PostStats
	err := d.Db.WithContext(ctx).Where("post_id = ?", postID).Limit(1).Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.PostID == 0 {
		return &models.PostStats{PostID: postID}, nil
	}
	return &item, nil
}

// BatchGet 批量获取帖子统计
func (d *PostStatsDAO) BatchGet(ctx context.Context, postIDs []uint64) (map[uint64]*models.PostStats, error) {
	result := make(map[uint64]*models.PostStats, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []*models.PostStats
	err := d.Db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = row
	}
	return result, nil
}
