package service

import (
	"Pulse/models"
	"Pulse/pkg/log"
	"Pulse/pkg/snowflake"
	"Pulse/types"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

var _ IPostService = (*PostService)(nil)

type IPostService interface {
	Create(ctx context.Context, userID uint64, req *types.CreatePostRequest) (*types.PostResponse, error)
	Get(ctx context.Context, viewerID, postID uint64) (*types.PostResponse, error)
	List(ctx context.Context, viewerID uint64, cursor int64, limit int) (*types.PostListResponse, error)
	Update(ctx context.Context, userID uint64, req *types.UpdatePostRequest) (*types.PostResponse, error)
	Delete(ctx context.Context, userID uint64, postID uint64) error
}

type PostService struct {
	Posts     PostStore
	Users     UserReader
	Reactions ReactionStore
	Broadcast IBroadcastService
	Queue     EventQueue
}

// Create 发帖, 落库后异步广播并投递内容事件(提及扇出在消费侧)
func (s *PostService) Create(ctx context.Context, userID uint64, req *types.CreatePostRequest) (*types.PostResponse, error) {
	post := &models.Post{
		ID:          uint64(snowflake.GenID()),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      1,
	}
	if err := s.Posts.CreateWithStats(ctx, post); err != nil {
		return nil, err
	}

	resp := s.buildResponse(ctx, post, nil, "")
	s.afterWrite(post, types.ContentPostCreated, func(ctx context.Context) {
		s.Broadcast.PublishPost(ctx, types.EventPostNew, &types.PostNewPayload{Post: resp})
	})
	return resp, nil
}

func (s *PostService) Get(ctx context.Context, viewerID, postID uint64) (*types.PostResponse, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NewNotFoundError("帖子不存在")
	}

	stats, err := s.Posts.StatsBatch(ctx, []uint64{postID})
	if err != nil {
		return nil, err
	}

	var userReaction string
	if viewerID > 0 {
		reactions, err := s.Reactions.UserReactions(ctx, viewerID, types.TargetPost, []uint64{postID})
		if err != nil {
			return nil, err
		}
		userReaction = reactions[postID]
	}
	return s.buildResponse(ctx, post, stats[postID], userReaction), nil
}

// List 帖子流, 按创建时间倒序的游标分页
func (s *PostService) List(ctx context.Context, viewerID uint64, cursor int64, limit int) (*types.PostListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	posts, err := s.Posts.ListByCursor(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	postIDs := make([]uint64, 0, len(posts))
	userIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		userIDs = append(userIDs, p.UserID)
	}

	stats, err := s.Posts.StatsBatch(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := s.Users.GetProfiles(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	reactions := map[uint64]string{}
	if viewerID > 0 {
		reactions, err = s.Reactions.UserReactions(ctx, viewerID, types.TargetPost, postIDs)
		if err != nil {
			return nil, err
		}
	}

	list := make([]*types.PostResponse, 0, len(posts))
	for _, p := range posts {
		item := &types.PostResponse{
			ID:           p.ID,
			UserID:       p.UserID,
			Title:        p.Title,
			Description:  p.Description,
			UserReaction: reactions[p.ID],
			CreatedAt:    p.CreatedAt,
			User:         profiles[p.UserID],
		}
		if st := stats[p.ID]; st != nil {
			item.ReactionCount = st.ReactionCount
			item.CommentCount = st.CommentCount
		}
		list = append(list, item)
	}

	resp := &types.PostListResponse{Posts: list, HasMore: hasMore}
	if len(posts) > 0 {
		resp.NextCursor = posts[len(posts)-1].CreatedAt.UnixMilli()
	}
	return resp, nil
}

// Update 改帖, 只允许作者本人; 更新后重新投递内容事件, 新增的提及会被补发
func (s *PostService) Update(ctx context.Context, userID uint64, req *types.UpdatePostRequest) (*types.PostResponse, error) {
	post, err := s.Posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NewNotFoundError("帖子不存在")
	}
	if post.UserID != userID {
		return nil, NewValidationError("只能修改自己的帖子")
	}

	if err := s.Posts.Update(ctx, req.PostID, map[string]any{
		"title":       req.Title,
		"description": req.Description,
	}); err != nil {
		return nil, err
	}
	post.Title = req.Title
	post.Description = req.Description

	stats, err := s.Posts.StatsBatch(ctx, []uint64{post.ID})
	if err != nil {
		return nil, err
	}
	resp := s.buildResponse(ctx, post, stats[post.ID], "")

	s.afterWrite(post, types.ContentPostUpdated, func(ctx context.Context) {
		s.Broadcast.PublishPost(ctx, types.EventPostUpdate, &types.PostUpdatePayload{Post: resp})
	})
	return resp, nil
}

// Delete 删帖(软删除), 来源于该帖的通知级联清理在存储层同事务完成
func (s *PostService) Delete(ctx context.Context, userID uint64, postID uint64) error {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return NewNotFoundError("帖子不存在")
	}
	if post.UserID != userID {
		return NewValidationError("只能删除自己的帖子")
	}

	if err := s.Posts.Delete(ctx, postID); err != nil {
		return err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("帖子删除广播 panic", zap.Any("recover", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Broadcast.PublishPost(ctx, types.EventPostDelete, &types.PostDeletePayload{PostID: postID})
	}()
	return nil
}

func (s *PostService) buildResponse(ctx context.Context, post *models.Post, stats *models.PostStats, userReaction string) *types.PostResponse {
	resp := &types.PostResponse{
		ID:           post.ID,
		UserID:       post.UserID,
		Title:        post.Title,
		Description:  post.Description,
		UserReaction: userReaction,
		CreatedAt:    post.CreatedAt,
	}
	if stats != nil {
		resp.ReactionCount = stats.ReactionCount
		resp.CommentCount = stats.CommentCount
	}
	if profiles, err := s.Users.GetProfiles(ctx, []uint64{post.UserID}); err == nil {
		resp.User = profiles[post.UserID]
	}
	return resp
}

// afterWrite 写入成功后的异步副作用: 广播 + 内容事件入队
func (s *PostService) afterWrite(post *models.Post, eventType string, broadcast func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("帖子副作用 panic", zap.Any("recover", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		broadcast(ctx)

		data, _ := json.Marshal(&types.ContentEventData{Target: types.PostRef(post.ID)})
		if err := s.Queue.SendContentEvent(ctx, &types.ContentEvent{
			Type:    eventType,
			ActorID: post.UserID,
			Data:    data,
		}); err != nil {
			log.L.Warn("内容事件投递失败",
				zap.String("type", eventType),
				zap.Uint64("post_id", post.ID),
				zap.Error(err))
		}
	}()
}
