package types

import (
	"Pulse/models"
	"time"
)

// ToggleAction 切换结果
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleChanged ToggleAction = "changed"
	ToggleRemoved ToggleAction = "removed"
)

type ToggleReactionRequest struct {
	TargetType   string `json:"target_type" binding:"required"`
	TargetID     uint64 `json:"target_id,string" binding:"required"`
	ReactionType string `json:"reaction_type" binding:"required"`
}

// ToggleReactionResult 直接操作的响应, 允许携带观察者自己的反应状态
type ToggleReactionResult struct {
	Action        ToggleAction     `json:"action"`
	Reaction      *models.Reaction `json:"reaction"` // removed 时为 null
	ReactionCount int64            `json:"reactions_count"`
}

// ReactionEntry 单条反应明细, 详情页按类型分组展示
type ReactionEntry struct {
	UserID    uint64    `json:"user_id,string"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionListResponse 目标的反应明细, 按类型分组
type ReactionListResponse struct {
	TargetType string                     `json:"target_type"`
	TargetID   uint64                     `json:"target_id,string"`
	ByType     map[string][]ReactionEntry `json:"by_type"`
}

// ReactionSummary 目标的聚合信息 + 当前观察者自己的反应
// UserReaction 属于观察者私有数据, 只出现在直接响应里, 绝不进入共享频道
type ReactionSummary struct {
	TargetType    string           `json:"target_type"`
	TargetID      uint64           `json:"target_id"`
	ReactionCount int64            `json:"reactions_count"`
	ByType        map[string]int64 `json:"by_type"`
	UserReaction  string           `json:"user_reaction,omitempty"`
}
