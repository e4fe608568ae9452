package socket

import (
	"Pulse/dao/cache"
	"Pulse/pkg/log"
	"Pulse/pkg/server"
	"context"
	"time"

	"go.uber.org/zap"
)

// HealthSubscribe 节点存活上报
type HealthSubscribe struct {
	storage *cache.ServerStorage
}

func NewHealthSubscribe(storage *cache.ServerStorage) *HealthSubscribe {
	return &HealthSubscribe{storage}
}

func (s *HealthSubscribe) Setup(ctx context.Context) error {
	log.L.Info("start health subscribe")

	timer := time.NewTicker(5 * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if err := s.storage.Set(ctx, server.GetServerId(), time.Now().Unix()); err != nil {
				log.L.Warn("health report error", zap.Error(err))
			}
		}
	}
}
