package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification 通知记录
// 归属 recipient, 不支持用户删除; 来源被销毁时级联删除,
// 读取时来源可能已不存在(payload 中呈现为 null)
type Notification struct {
	ID               uint64         `gorm:"column:id;primaryKey" json:"id"`
	RecipientID      uint64         `gorm:"column:recipient_id;not null;index:idx_recipient_read,priority:1" json:"recipient_id"`
	ActorID          uint64         `gorm:"column:actor_id;not null" json:"actor_id"`
	NotificationType string         `gorm:"column:notification_type;size:32;not null" json:"notification_type"`
	SourceType       string         `gorm:"column:source_type;size:16;not null;index:idx_source" json:"source_type"`
	SourceID         uint64         `gorm:"column:source_id;not null;index:idx_source" json:"source_id"`
	Ext              datatypes.JSON `gorm:"column:ext" json:"ext,omitempty"` // 附加快照(如反应类型)
	ReadAt           *time.Time     `gorm:"column:read_at;index:idx_recipient_read,priority:2" json:"read_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
