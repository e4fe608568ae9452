package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// 推送频道命名
// notifications:{userId} 为私有频道, posts / comments:{postId} 为共享频道
const (
	ChannelPosts = "posts"
)

func ChannelUserNotifications(userID uint64) string {
	return fmt.Sprintf("notifications:%d", userID)
}

func ChannelPostComments(postID uint64) string {
	return fmt.Sprintf("comments:%d", postID)
}

// 事件名, 与客户端 1:1 镜像
const (
	EventNewNotification      = "new_notification"
	EventNotificationRead     = "notification_read"
	EventAllNotificationsRead = "all_notifications_read"
	EventPostNew              = "post_new"
	EventPostUpdate           = "post_update"
	EventPostDelete           = "post_delete"
	EventCommentNew           = "comment_new"
	EventCommentDelete        = "comment_delete"
	EventReactionChanged      = "reaction_changed"
)

// PushEvent 推送信封
type PushEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type NewNotificationPayload struct {
	ID               uint64             `json:"id"`
	NotificationType string             `json:"notification_type"`
	Actor            UserProfile        `json:"actor"`
	Notifiable       *NotifiablePreview `json:"notifiable"` // 来源已删除时为 null
	CreatedAt        time.Time          `json:"created_at"`
}

type NotificationReadPayload struct {
	NotificationID uint64 `json:"notification_id"`
}

type AllNotificationsReadPayload struct{}

type PostNewPayload struct {
	Post *PostResponse `json:"post"`
}

type PostUpdatePayload struct {
	Post *PostResponse `json:"post"`
}

type PostDeletePayload struct {
	PostID uint64 `json:"post_id"`
}

type CommentNewPayload struct {
	Comment *CommentResponse `json:"comment"`
}

type CommentDeletePayload struct {
	PostID    uint64 `json:"post_id"`
	CommentID uint64 `json:"comment_id"`
}

// ReactionChangedPayload 共享频道的反应变更事件
// 只携带聚合计数, 永远不包含任何观察者自己的反应字段,
// 那是每个观察者的私有数据, 不允许泄漏到共享频道
type ReactionChangedPayload struct {
	TargetType    string `json:"target_type"`
	TargetID      uint64 `json:"target_id"`
	ReactionCount int64  `json:"reactions_count"`
}

// 内容事件类型
const (
	ContentPostCreated    = "post_created"
	ContentPostUpdated    = "post_updated"
	ContentCommentCreated = "comment_created"
)

// ContentEvent 内容写入后投递到 MQ 的系统消息,
// 提及扇出由消费者异步处理, 与内容事务完全解耦
type ContentEvent struct {
	Type    string          `json:"type"` // post_created / post_updated / comment_created
	ActorID uint64          `json:"actor_id"`
	Data    json.RawMessage `json:"data"`
}

type ContentEventData struct {
	Target TargetRef `json:"target"`
}
