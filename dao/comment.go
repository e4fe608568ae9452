package dao

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"time"

	"gorm.io/gorm"
)

type CommentDAO struct {
	Repo[models.Comment]
	Stats   *PostStatsDAO
	Notices *NotificationDAO
}

func NewCommentDAO(db *gorm.DB, stats *PostStatsDAO, notices *NotificationDAO) *CommentDAO {
	return &CommentDAO{Repo: NewRepo[models.Comment](db), Stats: stats, Notices: notices}
}

// CreateWithCounters 评论与帖子评论数/根评论回复数同事务维护
func (d *CommentDAO) CreateWithCounters(ctx context.Context, comment *models.Comment) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := d.Stats.IncrCommentCount(ctx, tx, comment.PostID, 1); err != nil {
			return err
		}
		if comment.RootID > 0 {
			return d.IncrReplyCount(ctx, tx, comment.RootID, 1)
		}
		return nil
	})
}

// GetByID 根据ID获取评论
func (d *CommentDAO) GetByID(ctx context.Context, commentID uint64) (*models.Comment, error) {
	return d.FindByWhere(ctx, "id = ? AND status = 1", commentID)
}

// GetRootCommentsByCursor 使用游标获取一级评论
func (d *CommentDAO) GetRootCommentsByCursor(ctx context.Context, postID uint64, cursor int64, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	query := d.Db.WithContext(ctx).
		Where("post_id = ? AND root_id = 0 AND status = 1", postID)

	// 如果有游标,则查询游标之前的数据
	if cursor > 0 {
		query = query.Where("created_at < ?", time.UnixMilli(cursor))
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error

	return comments, err
}

// GetRepliesByCursor 使用游标获取回复(按时间正序)
func (d *CommentDAO) GetRepliesByCursor(ctx context.Context, rootID uint64, cursor int64, limit int) ([]*models.Comment, error) {
	var replies []*models.Comment
	query := d.Db.WithContext(ctx).
		Where("root_id = ? AND status = 1", rootID)

	if cursor > 0 {
		query = query.Where("created_at > ?", time.UnixMilli(cursor))
	}

	err := query.
		Order("created_at ASC").
		Limit(limit).
		Find(&replies).Error

	return replies, err
}

// SoftDelete 软删除评论
func (d *CommentDAO) SoftDelete(ctx context.Context, tx *gorm.DB, commentID uint64) error {
	return tx.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("status", 0).Error
}

// Delete 删评论并回退计数, 来源通知同事务级联删除
func (d *CommentDAO) Delete(ctx context.Context, commentID uint64) error {
	comment, err := d.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return nil
	}
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := d.SoftDelete(ctx, tx, commentID); err != nil {
			return err
		}
		if err := d.Stats.IncrCommentCount(ctx, tx, comment.PostID, -1); err != nil {
			return err
		}
		if comment.RootID > 0 {
			if err := d.IncrReplyCount(ctx, tx, comment.RootID, -1); err != nil {
				return err
			}
		}
		return d.Notices.DeleteBySource(ctx, tx, types.CommentRef(commentID))
	})
}

// IncrReplyCount 回复数增减
func (d *CommentDAO) IncrReplyCount(ctx context.Context, tx *gorm.DB, commentID uint64, delta int64) error {
	return tx.Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta)).
		Error
}
