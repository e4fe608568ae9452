package types

import "time"

// 通知类型, 封闭集合
const (
	NoticeCommentOnPost     = "comment_on_post"
	NoticeReplyToComment    = "reply_to_comment"
	NoticeMention           = "mention"
	NoticeReactionOnPost    = "reaction_on_post"
	NoticeReactionOnComment = "reaction_on_comment"
)

var noticeTypes = map[string]struct{}{
	NoticeCommentOnPost:     {},
	NoticeReplyToComment:    {},
	NoticeMention:           {},
	NoticeReactionOnPost:    {},
	NoticeReactionOnComment: {},
}

// ValidNoticeType 判定通知类型是否在封闭集合内
func ValidNoticeType(t string) bool {
	_, ok := noticeTypes[t]
	return ok
}

// NotifiablePreview 通知来源的只读预览
// 来源已被删除时整体为 null, 由消费端呈现"内容已不存在"
type NotifiablePreview struct {
	Type    string `json:"type"`
	ID      uint64 `json:"id"`
	Preview string `json:"preview"` // 截断后的摘要, 截断只作用于载荷
}

type NotificationItem struct {
	ID               uint64             `json:"id"`
	NotificationType string             `json:"notification_type"`
	Actor            UserProfile        `json:"actor"`
	Notifiable       *NotifiablePreview `json:"notifiable"` // 可能为 null
	ReadAt           *time.Time         `json:"read_at"`
	CreatedAt        time.Time          `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationItem `json:"notifications"`
	NextCursor    int64               `json:"next_cursor"`
	HasMore       bool                `json:"has_more"`
	UnreadCount   int64               `json:"unread_count"`
}

type MarkReadRequest struct {
	NotificationID uint64 `json:"notification_id,string" binding:"required"`
}
