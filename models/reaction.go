package models

import "time"

// Reaction 反应记录
// 对应表 reactions
// 唯一键: user_id + target_type + target_id
// 同一用户对同一目标最多一条记录, 与 reaction_type 无关,
// 唯一索引是并发下同用户连点竞争的最终兜底
type Reaction struct {
	ID           uint64    `gorm:"column:id;primaryKey" json:"id"`
	UserID       uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_user_target,priority:1" json:"user_id"`
	TargetType   string    `gorm:"column:target_type;size:16;not null;uniqueIndex:uk_user_target,priority:2" json:"target_type"`
	TargetID     uint64    `gorm:"column:target_id;not null;uniqueIndex:uk_user_target,priority:3;index:idx_target" json:"target_id"`
	ReactionType string    `gorm:"column:reaction_type;size:16;not null" json:"reaction_type"` // like / love / dislike
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Reaction) TableName() string { return "reactions" }
