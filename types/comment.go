package types

import "time"

// 创建评论请求
type CreateCommentRequest struct {
	PostID      uint64 `json:"post_id,string" binding:"required"`
	Description string `json:"description" binding:"required,min=1,max=1000"`
	RootID      uint64 `json:"root_id,string"`   // 根评论ID(回复评论时需要)
	ParentID    uint64 `json:"parent_id,string"` // 父评论ID(回复评论时需要)
}

// 删除评论请求
type DeleteCommentRequest struct {
	CommentID uint64 `json:"comment_id,string" binding:"required"`
}

// 评论响应
type CommentResponse struct {
	ID            uint64      `json:"id"`
	PostID        uint64      `json:"post_id"`
	UserID        uint64      `json:"user_id"`
	Description   string      `json:"description"`
	ReactionCount int64       `json:"reactions_count"`
	ReplyCount    int64       `json:"reply_count"`
	UserReaction  string      `json:"user_reaction,omitempty"` // 当前用户自己的反应
	CreatedAt     time.Time   `json:"created_at"`
	User          UserProfile `json:"user"`
}

type CommentsListResponse struct {
	Comments   []*CommentResponse `json:"comments"`
	NextCursor int64              `json:"next_cursor"`
	HasMore    bool               `json:"has_more"`
}
