package models

import "time"

// Comment 评论表结构
type Comment struct {
	ID            uint64    `gorm:"column:id;primaryKey" json:"id"`                                                               // 评论唯一ID
	PostID        uint64    `gorm:"column:post_id;not null;index:idx_post_id_root_id" json:"post_id"`                             // 所属帖子ID
	UserID        uint64    `gorm:"column:user_id;not null;index:idx_user_id" json:"user_id"`                                     // 发布评论的用户ID
	RootID        uint64    `gorm:"column:root_id;not null;default:0;index:idx_post_id_root_id;index:idx_root_id" json:"root_id"` // 顶级评论ID (0表示本身是顶级评论)
	ParentID      uint64    `gorm:"column:parent_id;not null;default:0" json:"parent_id"`                                         // 直接上级评论ID
	Description   string    `gorm:"column:description;type:text;not null" json:"description"`                                     // 评论正文
	ReactionCount int64     `gorm:"column:reaction_count;default:0" json:"reaction_count"`                                        // 反应数(计数缓存)
	ReplyCount    int64     `gorm:"column:reply_count;default:0" json:"reply_count"`                                              // 回复数
	Status        int8      `gorm:"column:status;default:1" json:"status"`                                                        // 状态: 1-正常, 0-已删除
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
