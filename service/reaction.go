package service

import (
	"Pulse/models"
	"Pulse/pkg/log"
	"Pulse/pkg/snowflake"
	"Pulse/types"
	"context"
	"time"

	"go.uber.org/zap"
)

var _ IReactionService = (*ReactionService)(nil)

type IReactionService interface {
	Toggle(ctx context.Context, userID uint64, req *types.ToggleReactionRequest) (*types.ToggleReactionResult, error)
	Summary(ctx context.Context, userID uint64, target types.TargetRef) (*types.ReactionSummary, error)
	List(ctx context.Context, target types.TargetRef, limit int) (*types.ReactionListResponse, error)
}

type ReactionService struct {
	Store         ReactionStore
	Notifications INotificationService
	Broadcast     IBroadcastService
}

var allowedReactionTypes = map[string]struct{}{
	"like":    {},
	"love":    {},
	"dislike": {},
}

// Toggle 切换反应, 一次请求只做一件事:
// 无记录 -> 新增; 同类型 -> 取消; 异类型 -> 替换(计数不变)
func (s *ReactionService) Toggle(ctx context.Context, userID uint64, req *types.ToggleReactionRequest) (*types.ToggleReactionResult, error) {
	target := types.TargetRef{Kind: types.TargetKind(req.TargetType), ID: req.TargetID}
	if !target.Valid() {
		return nil, NewValidationError("不支持的目标类型")
	}
	if _, ok := allowedReactionTypes[req.ReactionType]; !ok {
		return nil, NewValidationError("不支持的反应类型")
	}

	exist, err := s.Store.TargetExists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, NewNotFoundError("目标不存在或已删除")
	}

	decision, err := s.toggleOnce(ctx, userID, target, req.ReactionType)
	if err != nil && isDuplicateEntry(err) {
		// 同用户并发连点撞到唯一索引, 基于最新状态重算一次
		log.L.Info("反应切换唯一键冲突, 重试",
			zap.Uint64("user_id", userID),
			zap.String("target", target.String()))
		decision, err = s.toggleOnce(ctx, userID, target, req.ReactionType)
		if err != nil && isDuplicateEntry(err) {
			return nil, NewConflictError("操作过于频繁, 请稍后再试")
		}
	}
	if err != nil {
		return nil, err
	}

	count, err := s.Store.ReactionCount(ctx, target)
	if err != nil {
		// 行为已经落库, 计数读取失败不应让整个请求失败
		log.L.Warn("读取反应计数失败", zap.String("target", target.String()), zap.Error(err))
		count = 0
	}

	s.afterToggle(userID, target, decision, count)

	result := &types.ToggleReactionResult{
		Action:        decision.Action,
		ReactionCount: count,
	}
	if decision.Action != types.ToggleRemoved {
		result.Reaction = decision.Reaction
	}
	return result, nil
}

// toggleOnce 读当前状态 -> 纯函数决策 -> 单事务应用
func (s *ReactionService) toggleOnce(ctx context.Context, userID uint64, target types.TargetRef, reactionType string) (ToggleDecision, error) {
	existing, err := s.Store.GetByUserTarget(ctx, userID, target)
	if err != nil {
		return ToggleDecision{}, err
	}
	decision := decideToggle(existing, userID, target, reactionType)
	if err := s.Store.Apply(ctx, decision); err != nil {
		return ToggleDecision{}, err
	}
	return decision, nil
}

// afterToggle 事务提交后的异步副作用: 广播 + 作者通知
// 失败只记日志, 不回滚也不上抛
func (s *ReactionService) afterToggle(userID uint64, target types.TargetRef, decision ToggleDecision, count int64) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("反应副作用 panic", zap.Any("recover", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		postID, err := s.Store.TargetPostID(ctx, target)
		if err != nil {
			log.L.Warn("定位目标帖子失败", zap.String("target", target.String()), zap.Error(err))
			return
		}
		s.Broadcast.PublishReactionChanged(ctx, target, postID, count)

		if decision.Action != types.ToggleAdded {
			return
		}
		authorID, err := s.Store.TargetAuthorID(ctx, target)
		if err != nil || authorID == 0 {
			return
		}
		noticeType := types.NoticeReactionOnPost
		if target.Kind == types.TargetComment {
			noticeType = types.NoticeReactionOnComment
		}
		s.Notifications.Notify(ctx, &NotifyInput{
			RecipientID:      authorID,
			ActorID:          userID,
			NotificationType: noticeType,
			Source:           target,
		})
	}()
}

// Summary 目标的聚合反应信息, UserReaction 只属于当前观察者
func (s *ReactionService) Summary(ctx context.Context, userID uint64, target types.TargetRef) (*types.ReactionSummary, error) {
	if !target.Valid() {
		return nil, NewValidationError("不支持的目标类型")
	}
	exist, err := s.Store.TargetExists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, NewNotFoundError("目标不存在或已删除")
	}

	byType, err := s.Store.CountByType(ctx, target)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byType {
		total += n
	}

	summary := &types.ReactionSummary{
		TargetType:    string(target.Kind),
		TargetID:      target.ID,
		ReactionCount: total,
		ByType:        byType,
	}
	if userID > 0 {
		own, err := s.Store.GetByUserTarget(ctx, userID, target)
		if err != nil {
			return nil, err
		}
		if own != nil {
			summary.UserReaction = own.ReactionType
		}
	}
	return summary, nil
}

// List 目标最近的反应明细, 按类型分组
func (s *ReactionService) List(ctx context.Context, target types.TargetRef, limit int) (*types.ReactionListResponse, error) {
	if !target.Valid() {
		return nil, NewValidationError("不支持的目标类型")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.Store.ListByTarget(ctx, target, limit)
	if err != nil {
		return nil, err
	}

	byType := make(map[string][]types.ReactionEntry)
	for _, r := range rows {
		byType[r.ReactionType] = append(byType[r.ReactionType], types.ReactionEntry{
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		})
	}
	return &types.ReactionListResponse{
		TargetType: string(target.Kind),
		TargetID:   target.ID,
		ByType:     byType,
	}, nil
}

// decideToggle 纯决策函数, 不碰存储
// 注意 changed 不动计数: 一人一票, 换类型不改总数
func decideToggle(existing *models.Reaction, userID uint64, target types.TargetRef, reactionType string) ToggleDecision {
	if existing == nil {
		return ToggleDecision{
			Action: types.ToggleAdded,
			Reaction: &models.Reaction{
				ID:           uint64(snowflake.GenID()),
				UserID:       userID,
				TargetType:   string(target.Kind),
				TargetID:     target.ID,
				ReactionType: reactionType,
			},
			Target:       target,
			CounterDelta: 1,
		}
	}
	if existing.ReactionType == reactionType {
		return ToggleDecision{
			Action:       types.ToggleRemoved,
			Reaction:     existing,
			Target:       target,
			CounterDelta: -1,
		}
	}
	changed := *existing
	changed.ReactionType = reactionType
	return ToggleDecision{
		Action:       types.ToggleChanged,
		Reaction:     &changed,
		Target:       target,
		CounterDelta: 0,
	}
}
