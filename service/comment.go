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

var _ ICommentService = (*CommentService)(nil)

type ICommentService interface {
	Create(ctx context.Context, userID uint64, req *types.CreateCommentRequest) (*types.CommentResponse, error)
	ListRoots(ctx context.Context, viewerID, postID uint64, cursor int64, limit int) (*types.CommentsListResponse, error)
	ListReplies(ctx context.Context, viewerID, rootID uint64, cursor int64, limit int) (*types.CommentsListResponse, error)
	Delete(ctx context.Context, userID uint64, commentID uint64) error
}

type CommentService struct {
	Comments  CommentStore
	Posts     PostStore
	Users     UserReader
	Reactions ReactionStore
	Notices   INotificationService
	Broadcast IBroadcastService
	Queue     EventQueue
}

// Create 发评论/回复
// 计数在存储层同事务维护; 通知/广播/提及事件全部异步
func (s *CommentService) Create(ctx context.Context, userID uint64, req *types.CreateCommentRequest) (*types.CommentResponse, error) {
	post, err := s.Posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NewNotFoundError("帖子不存在")
	}

	var parent *models.Comment
	if req.RootID > 0 {
		root, err := s.Comments.GetByID(ctx, req.RootID)
		if err != nil {
			return nil, err
		}
		if root == nil || root.PostID != req.PostID {
			return nil, NewNotFoundError("根评论不存在")
		}
		parentID := req.ParentID
		if parentID == 0 {
			parentID = req.RootID
		}
		if parentID != req.RootID {
			parent, err = s.Comments.GetByID(ctx, parentID)
			if err != nil {
				return nil, err
			}
			if parent == nil || parent.PostID != req.PostID {
				return nil, NewNotFoundError("父评论不存在")
			}
		} else {
			parent = root
		}
		req.ParentID = parentID
	}

	comment := &models.Comment{
		ID:          uint64(snowflake.GenID()),
		PostID:      req.PostID,
		UserID:      userID,
		RootID:      req.RootID,
		ParentID:    req.ParentID,
		Description: req.Description,
		Status:      1,
	}
	if err := s.Comments.CreateWithCounters(ctx, comment); err != nil {
		return nil, err
	}

	resp := s.buildResponse(ctx, comment, "")
	s.afterCreate(comment, post, parent, resp)
	return resp, nil
}

// afterCreate 评论落库后的异步副作用
func (s *CommentService) afterCreate(comment *models.Comment, post *models.Post, parent *models.Comment, resp *types.CommentResponse) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("评论副作用 panic", zap.Any("recover", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.Broadcast.PublishComment(ctx, comment.PostID, types.EventCommentNew, &types.CommentNewPayload{Comment: resp})

		// 帖子作者收评论通知
		s.Notices.Notify(ctx, &NotifyInput{
			RecipientID:      post.UserID,
			ActorID:          comment.UserID,
			NotificationType: types.NoticeCommentOnPost,
			Source:           types.CommentRef(comment.ID),
		})
		// 被回复的评论作者收回复通知, 与帖子作者是同一人时由去重兜底
		if parent != nil && parent.UserID != post.UserID {
			s.Notices.Notify(ctx, &NotifyInput{
				RecipientID:      parent.UserID,
				ActorID:          comment.UserID,
				NotificationType: types.NoticeReplyToComment,
				Source:           types.CommentRef(comment.ID),
			})
		}

		data, _ := json.Marshal(&types.ContentEventData{Target: types.CommentRef(comment.ID)})
		if err := s.Queue.SendContentEvent(ctx, &types.ContentEvent{
			Type:    types.ContentCommentCreated,
			ActorID: comment.UserID,
			Data:    data,
		}); err != nil {
			log.L.Warn("内容事件投递失败",
				zap.Uint64("comment_id", comment.ID),
				zap.Error(err))
		}
	}()
}

// ListRoots 帖子下的顶级评论
func (s *CommentService) ListRoots(ctx context.Context, viewerID, postID uint64, cursor int64, limit int) (*types.CommentsListResponse, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NewNotFoundError("帖子不存在")
	}

	if limit <= 0 || limit > 50 {
		limit = 20
	}
	comments, err := s.Comments.GetRootCommentsByCursor(ctx, postID, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	return s.buildList(ctx, viewerID, comments, limit)
}

// ListReplies 某条顶级评论下的回复
func (s *CommentService) ListReplies(ctx context.Context, viewerID, rootID uint64, cursor int64, limit int) (*types.CommentsListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	comments, err := s.Comments.GetRepliesByCursor(ctx, rootID, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	return s.buildList(ctx, viewerID, comments, limit)
}

// Delete 删评论, 计数回退与来源通知清理在存储层同事务完成
func (s *CommentService) Delete(ctx context.Context, userID uint64, commentID uint64) error {
	comment, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return NewNotFoundError("评论不存在")
	}
	if comment.UserID != userID {
		return NewValidationError("只能删除自己的评论")
	}

	if err := s.Comments.Delete(ctx, commentID); err != nil {
		return err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("评论删除广播 panic", zap.Any("recover", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Broadcast.PublishComment(ctx, comment.PostID, types.EventCommentDelete, &types.CommentDeletePayload{
			PostID:    comment.PostID,
			CommentID: commentID,
		})
	}()
	return nil
}

func (s *CommentService) buildList(ctx context.Context, viewerID uint64, comments []*models.Comment, limit int) (*types.CommentsListResponse, error) {
	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}

	commentIDs := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	profiles, err := s.Users.GetProfiles(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	reactions := map[uint64]string{}
	if viewerID > 0 {
		reactions, err = s.Reactions.UserReactions(ctx, viewerID, types.TargetComment, commentIDs)
		if err != nil {
			return nil, err
		}
	}

	list := make([]*types.CommentResponse, 0, len(comments))
	for _, c := range comments {
		list = append(list, &types.CommentResponse{
			ID:            c.ID,
			PostID:        c.PostID,
			UserID:        c.UserID,
			Description:   c.Description,
			ReactionCount: c.ReactionCount,
			ReplyCount:    c.ReplyCount,
			UserReaction:  reactions[c.ID],
			CreatedAt:     c.CreatedAt,
			User:          profiles[c.UserID],
		})
	}

	resp := &types.CommentsListResponse{Comments: list, HasMore: hasMore}
	if len(comments) > 0 {
		resp.NextCursor = comments[len(comments)-1].CreatedAt.UnixMilli()
	}
	return resp, nil
}

func (s *CommentService) buildResponse(ctx context.Context, comment *models.Comment, userReaction string) *types.CommentResponse {
	resp := &types.CommentResponse{
		ID:            comment.ID,
		PostID:        comment.PostID,
		UserID:        comment.UserID,
		Description:   comment.Description,
		ReactionCount: comment.ReactionCount,
		ReplyCount:    comment.ReplyCount,
		UserReaction:  userReaction,
		CreatedAt:     comment.CreatedAt,
	}
	if profiles, err := s.Users.GetProfiles(ctx, []uint64{comment.UserID}); err == nil {
		resp.User = profiles[comment.UserID]
	}
	return resp
}
