package dao

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"time"

	"gorm.io/gorm"
)

type PostDAO struct {
	Repo[models.Post]
	Stats   *PostStatsDAO
	Notices *NotificationDAO
}

func NewPostDAO(db *gorm.DB, stats *PostStatsDAO, notices *NotificationDAO) *PostDAO {
	return &PostDAO{Repo: NewRepo[models.Post](db), Stats: stats, Notices: notices}
}

// CreateWithStats 新帖与计数行同事务创建
func (d *PostDAO) CreateWithStats(ctx context.Context, post *models.Post) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Create(&models.PostStats{PostID: post.ID}).Error
	})
}

// GetByID 根据ID获取帖子
func (d *PostDAO) GetByID(ctx context.Context, postID uint64) (*models.Post, error) {
	return d.FindByWhere(ctx, "id = ? AND status = 1", postID)
}

// ListByCursor 游标分页获取帖子列表
func (d *PostDAO) ListByCursor(ctx context.Context, cursor int64, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	query := d.Db.WithContext(ctx).Where("status = 1")

	if cursor > 0 {
		query = query.Where("created_at < ?", time.UnixMilli(cursor))
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Update 更新帖子内容
func (d *PostDAO) Update(ctx context.Context, postID uint64, data map[string]any) error {
	return d.Db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND status = 1", postID).
		Updates(data).Error
}

// SoftDelete 软删除帖子
func (d *PostDAO) SoftDelete(ctx context.Context, tx *gorm.DB, postID uint64) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		Update("status", 0).Error
}

// Delete 删帖, 来源于该帖的通知在同一事务里级联删除
// 来源已删的旧通知靠读取侧容忍, 这里清理的是还未读到的
func (d *PostDAO) Delete(ctx context.Context, postID uint64) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := d.SoftDelete(ctx, tx, postID); err != nil {
			return err
		}
		return d.Notices.DeleteBySource(ctx, tx, types.PostRef(postID))
	})
}

// StatsBatch 批量获取帖子计数
func (d *PostDAO) StatsBatch(ctx context.Context, postIDs []uint64) (map[uint64]*models.PostStats, error) {
	return d.Stats.BatchGet(ctx, postIDs)
}
