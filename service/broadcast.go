package service

import (
	"Pulse/pkg/log"
	"Pulse/types"
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ IBroadcastService = (*BroadcastService)(nil)

// IBroadcastService 实时事件广播
// 全部 at-most-once: 发布失败只记日志, 绝不影响调用方的业务结果
type IBroadcastService interface {
	NotifyUser(ctx context.Context, userID uint64, event string, payload any)
	PublishPost(ctx context.Context, event string, payload any)
	PublishComment(ctx context.Context, postID uint64, event string, payload any)
	PublishReactionChanged(ctx context.Context, target types.TargetRef, postID uint64, count int64)
}

type BroadcastService struct {
	Redis *redis.Client
}

// NotifyUser 推送到用户私有频道 notifications:{userId}
func (s *BroadcastService) NotifyUser(ctx context.Context, userID uint64, event string, payload any) {
	s.publish(ctx, types.ChannelUserNotifications(userID), event, payload)
}

// PublishPost 推送到共享帖子流频道
func (s *BroadcastService) PublishPost(ctx context.Context, event string, payload any) {
	s.publish(ctx, types.ChannelPosts, event, payload)
}

// PublishComment 推送到帖子的评论频道 comments:{postId}
func (s *BroadcastService) PublishComment(ctx context.Context, postID uint64, event string, payload any) {
	s.publish(ctx, types.ChannelPostComments(postID), event, payload)
}

// PublishReactionChanged 反应计数变更
// postID 是目标所属的帖子(目标本身是帖子时即 target.ID)
// 载荷只有聚合计数, 不携带任何单个观察者的反应字段
func (s *BroadcastService) PublishReactionChanged(ctx context.Context, target types.TargetRef, postID uint64, count int64) {
	payload := &types.ReactionChangedPayload{
		TargetType:    string(target.Kind),
		TargetID:      target.ID,
		ReactionCount: count,
	}
	if target.Kind == types.TargetPost {
		// 帖子流上也展示反应数
		s.publish(ctx, types.ChannelPosts, types.EventReactionChanged, payload)
	}
	// 正在看该帖子评论区的人
	s.publish(ctx, types.ChannelPostComments(postID), types.EventReactionChanged, payload)
}

func (s *BroadcastService) publish(ctx context.Context, channel, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.L.Warn("广播载荷序列化失败", zap.String("event", event), zap.Error(err))
		return
	}
	body, err := json.Marshal(&types.PushEvent{Event: event, Payload: raw})
	if err != nil {
		log.L.Warn("广播信封序列化失败", zap.String("event", event), zap.Error(err))
		return
	}
	if err := s.Redis.Publish(ctx, channel, string(body)).Err(); err != nil {
		log.L.Warn("广播发布失败",
			zap.String("channel", channel),
			zap.String("event", event),
			zap.Error(err))
	}
}
