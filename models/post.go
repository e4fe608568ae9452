package models

import "time"

// Post 帖子表结构
type Post struct {
	ID          uint64    `gorm:"column:id;primaryKey" json:"id"`
	UserID      uint64    `gorm:"column:user_id;not null;index:idx_user_id" json:"user_id"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Status      int8      `gorm:"column:status;default:1" json:"status"` // 1-正常, 0-已删除
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
