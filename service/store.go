package service

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"time"
)

// ToggleDecision 一次反应切换的落库决策
// 由纯函数计算得出, 在存储层的单个事务中原子应用
type ToggleDecision struct {
	Action       types.ToggleAction
	Reaction     *models.Reaction
	Target       types.TargetRef
	CounterDelta int64
}

// ReactionStore 反应存储能力
type ReactionStore interface {
	GetByUserTarget(ctx context.Context, userID uint64, target types.TargetRef) (*models.Reaction, error)
	TargetExists(ctx context.Context, target types.TargetRef) (bool, error)
	TargetAuthorID(ctx context.Context, target types.TargetRef) (uint64, error)
	TargetPostID(ctx context.Context, target types.TargetRef) (uint64, error)
	ReactionCount(ctx context.Context, target types.TargetRef) (int64, error)
	CountByType(ctx context.Context, target types.TargetRef) (map[string]int64, error)
	UserReactions(ctx context.Context, userID uint64, kind types.TargetKind, targetIDs []uint64) (map[uint64]string, error)
	ListByTarget(ctx context.Context, target types.TargetRef, limit int) ([]*models.Reaction, error)
	Apply(ctx context.Context, decision ToggleDecision) error
}

// NotificationStore 通知存储能力
type NotificationStore interface {
	Create(ctx context.Context, item *models.Notification) error
	GetByID(ctx context.Context, notificationID uint64) (*models.Notification, error)
	MarkRead(ctx context.Context, notificationID, recipientID uint64, readAt time.Time) (int64, error)
	MarkUnread(ctx context.Context, notificationID, recipientID uint64) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uint64, readAt time.Time) (int64, error)
	ListByRecipient(ctx context.Context, recipientID uint64, cursor int64, limit int) ([]*models.Notification, error)
	ExistsForSource(ctx context.Context, recipientID uint64, notificationType string, source types.TargetRef) (bool, error)
	CountUnread(ctx context.Context, recipientID uint64) (int64, error)
}

// SourceResolver 通知来源预览解析
// 来源已删除时返回 (nil, nil), 绝不报错
type SourceResolver interface {
	ResolvePreview(ctx context.Context, ref types.TargetRef) (*types.NotifiablePreview, error)
}

// MentionSource 提及扫描的正文读取
type MentionSource interface {
	MentionText(ctx context.Context, ref types.TargetRef) (string, bool, error)
}

// MentionUserResolver 提及标识符到用户的解析
type MentionUserResolver interface {
	ResolveByIdentifiers(ctx context.Context, identifiers []string) ([]*models.User, error)
}

// UserReader 用户档案批量读取
type UserReader interface {
	GetProfiles(ctx context.Context, userIDs []uint64) (map[uint64]types.UserProfile, error)
}

// PostStore 帖子存储能力, 写操作内部保证事务性
type PostStore interface {
	CreateWithStats(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID uint64) (*models.Post, error)
	ListByCursor(ctx context.Context, cursor int64, limit int) ([]*models.Post, error)
	Update(ctx context.Context, postID uint64, data map[string]any) error
	Delete(ctx context.Context, postID uint64) error
	StatsBatch(ctx context.Context, postIDs []uint64) (map[uint64]*models.PostStats, error)
}

// CommentStore 评论存储能力, 创建/删除与计数同事务
type CommentStore interface {
	CreateWithCounters(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID uint64) (*models.Comment, error)
	GetRootCommentsByCursor(ctx context.Context, postID uint64, cursor int64, limit int) ([]*models.Comment, error)
	GetRepliesByCursor(ctx context.Context, rootID uint64, cursor int64, limit int) ([]*models.Comment, error)
	Delete(ctx context.Context, commentID uint64) error
}

// UnreadCounter 未读角标缓存, 全部 best-effort
type UnreadCounter interface {
	Incr(ctx context.Context, uid uint64)
	Decr(ctx context.Context, uid uint64)
	Get(ctx context.Context, uid uint64) (int64, bool)
	Set(ctx context.Context, uid uint64, count int64)
	Reset(ctx context.Context, uid uint64)
}

// EventQueue 内容事件投递(MQ)
type EventQueue interface {
	SendContentEvent(ctx context.Context, ev *types.ContentEvent) error
}
