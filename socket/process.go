package socket

import (
	"Pulse/config"
	"Pulse/pkg/log"
	pkgmq "Pulse/pkg/rocketmq"
	"Pulse/service"
	"context"
	"sync"

	"github.com/apache/rocketmq-client-go/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var once sync.Once

type IServer interface {
	Setup(ctx context.Context) error
}

// SubServers 推送节点的守护协程列表
type SubServers struct {
	Health     *HealthSubscribe
	Subscriber *Subscriber
}

type Server struct {
	items []IServer
	SubServers

	Conf          *config.Config
	MqConsumer    rocketmq.PushConsumer
	ContentEvents service.IContentEventService
}

func NewServer(servers SubServers, conf *config.Config, consumer rocketmq.PushConsumer, events service.IContentEventService) *Server {
	return &Server{
		items:         []IServer{servers.Health, servers.Subscriber},
		SubServers:    servers,
		Conf:          conf,
		MqConsumer:    consumer,
		ContentEvents: events,
	}
}

// Start 启动全部守护协程与 MQ 消费
func (c *Server) Start(eg *errgroup.Group, ctx context.Context) {
	once.Do(func() {
		for _, process := range c.items {
			serv := process
			eg.Go(func() error {
				return serv.Setup(ctx)
			})
		}

		if err := pkgmq.SubscribeContentEvents(c.MqConsumer, c.Conf.RocketMQ.ContentTopic, c.ContentEvents); err != nil {
			log.L.Fatal("subscribe content events failed", zap.Error(err))
		}
		if err := c.MqConsumer.Start(); err != nil {
			log.L.Fatal("start consumer failed", zap.Error(err))
		}

		eg.Go(func() error {
			<-ctx.Done()
			log.L.Info("正在优雅关闭 RocketMQ 消费者...")
			return c.MqConsumer.Shutdown()
		})
	})
}
