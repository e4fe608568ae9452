package dao

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"time"

	"gorm.io/gorm"
)

type NotificationDAO struct {
	Repo[models.Notification]
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{Repo: NewRepo[models.Notification](db)}
}

// GetByID 根据ID获取通知
func (d *NotificationDAO) GetByID(ctx context.Context, notificationID uint64) (*models.Notification, error) {
	return d.FindByWhere(ctx, "id = ?", notificationID)
}

// MarkRead 标记单条已读, 返回实际更新的行数
// read_at 已有值时不更新(幂等)
func (d *NotificationDAO) MarkRead(ctx context.Context, notificationID, recipientID uint64, readAt time.Time) (int64, error) {
	result := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", notificationID, recipientID).
		Update("read_at", readAt)
	return result.RowsAffected, result.Error
}

// MarkUnread 撤销已读, 仅供内部流程使用, 返回实际更新的行数
func (d *NotificationDAO) MarkUnread(ctx context.Context, notificationID, recipientID uint64) (int64, error) {
	result := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NOT NULL", notificationID, recipientID).
		Update("read_at", nil)
	return result.RowsAffected, result.Error
}

// MarkAllRead 单条 UPDATE 批量置已读, 返回更新行数
func (d *NotificationDAO) MarkAllRead(ctx context.Context, recipientID uint64, readAt time.Time) (int64, error) {
	result := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", readAt)
	return result.RowsAffected, result.Error
}

// ListByRecipient 游标分页获取通知列表(按时间倒序)
func (d *NotificationDAO) ListByRecipient(ctx context.Context, recipientID uint64, cursor int64, limit int) ([]*models.Notification, error) {
	var rows []*models.Notification
	query := d.Db.WithContext(ctx).Where("recipient_id = ?", recipientID)

	if cursor > 0 {
		query = query.Where("created_at < ?", time.UnixMilli(cursor))
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ExistsForSource 指定 (recipient, type, source) 是否已有通知
// 提及扇出靠它保证重复处理时的幂等
func (d *NotificationDAO) ExistsForSource(ctx context.Context, recipientID uint64, notificationType string, source types.TargetRef) (bool, error) {
	return d.IsExist(ctx,
		"recipient_id = ? AND notification_type = ? AND source_type = ? AND source_id = ?",
		recipientID, notificationType, source.Kind, source.ID)
}

// CountUnread 未读数
func (d *NotificationDAO) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

// DeleteBySource 来源销毁时级联删除其通知
func (d *NotificationDAO) DeleteBySource(ctx context.Context, tx *gorm.DB, source types.TargetRef) error {
	return tx.Where("source_type = ? AND source_id = ?", source.Kind, source.ID).
		Delete(&models.Notification{}).Error
}
