package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 节点最大存活上报间隔(秒), 超过视为下线
const serverOverTime = 50

// ServerStorage 存活推送节点注册表
type ServerStorage struct {
	redis *redis.Client
}

func NewServerStorage(rds *redis.Client) *ServerStorage {
	return &ServerStorage{redis: rds}
}

// Set 上报节点心跳
func (s *ServerStorage) Set(ctx context.Context, sid string, t int64) error {
	return s.redis.HSet(ctx, s.name(), sid, t).Err()
}

// Del 摘除节点
func (s *ServerStorage) Del(ctx context.Context, sid string) error {
	return s.redis.HDel(ctx, s.name(), sid).Err()
}

// All 获取节点列表
// status: 1-存活 2-全部
func (s *ServerStorage) All(ctx context.Context, status int) []string {
	sids := make([]string, 0)

	all, err := s.redis.HGetAll(ctx, s.name()).Result()
	if err != nil {
		return sids
	}

	now := time.Now().Unix()
	for sid, val := range all {
		var t int64
		if _, err := fmt.Sscanf(val, "%d", &t); err != nil {
			continue
		}
		if status == 2 || now-t <= serverOverTime {
			sids = append(sids, sid)
		}
	}

	return sids
}

func (s *ServerStorage) name() string {
	return "ws:server:alive"
}
