package types

import "time"

type CreatePostRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=10000"`
}

type UpdatePostRequest struct {
	PostID      uint64 `json:"post_id,string" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=10000"`
}

type DeletePostRequest struct {
	PostID uint64 `json:"post_id,string" binding:"required"`
}

// PostResponse 帖子视图
// UserReaction 只在面向单个观察者的响应中填充
type PostResponse struct {
	ID            uint64      `json:"id"`
	UserID        uint64      `json:"user_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ReactionCount int64       `json:"reactions_count"`
	CommentCount  int64       `json:"comments_count"`
	UserReaction  string      `json:"user_reaction,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	User          UserProfile `json:"user"`
}

type PostListResponse struct {
	Posts      []*PostResponse `json:"posts"`
	NextCursor int64           `json:"next_cursor"`
	HasMore    bool            `json:"has_more"`
}
