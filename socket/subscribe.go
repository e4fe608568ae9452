package socket

import (
	"Pulse/pkg/log"
	"Pulse/types"
	"context"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Subscriber 订阅 redis 频道并分发到本节点连接
// 私有频道按用户路由, 共享频道按房间/全量路由
type Subscriber struct {
	Redis   *redis.Client
	Manager *Manager
}

func (s *Subscriber) Setup(ctx context.Context) error {
	sub := s.Redis.PSubscribe(ctx,
		types.ChannelPosts,
		"notifications:*",
		"comments:*",
	)
	defer sub.Close()

	log.L.Info("push subscriber started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (s *Subscriber) dispatch(channel string, body []byte) {
	switch {
	case channel == types.ChannelPosts:
		s.Manager.BroadcastAll(body)
	case strings.HasPrefix(channel, "notifications:"):
		uid, err := strconv.ParseUint(strings.TrimPrefix(channel, "notifications:"), 10, 64)
		if err != nil {
			log.L.Warn("bad notification channel", zap.String("channel", channel))
			return
		}
		s.Manager.PushToUser(uid, body)
	case strings.HasPrefix(channel, "comments:"):
		postID, err := strconv.ParseUint(strings.TrimPrefix(channel, "comments:"), 10, 64)
		if err != nil {
			log.L.Warn("bad comments channel", zap.String("channel", channel))
			return
		}
		s.Manager.BroadcastRoom(postID, body)
	default:
		log.L.Warn("unknown channel", zap.String("channel", channel))
	}
}
