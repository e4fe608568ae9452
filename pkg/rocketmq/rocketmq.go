package rocketmq

import (
	"Pulse/config"
	"Pulse/pkg/log"
	"context"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// Queue 内容事件的 MQ 出入口
type Queue struct {
	conf     *config.RocketMQConfig
	producer rocketmq.Producer
}

func NewQueue(cfg *config.RocketMQConfig) *Queue {
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		log.L.Fatal("init rocketmq producer failed", zap.Error(err))
	}
	if err := p.Start(); err != nil {
		log.L.Fatal("start rocketmq producer failed", zap.Error(err))
	}
	log.L.Info("init rocketmq producer success")

	return &Queue{conf: cfg, producer: p}
}

// SendMsg 发送同步消息
func (q *Queue) SendMsg(ctx context.Context, topic string, body []byte) error {
	msg := &primitive.Message{
		Topic: topic,
		Body:  body,
	}

	res, err := q.producer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Info("send message success", zap.String("msg_id", res.MsgID))
	return nil
}

// InitConsumer 创建推送消费者, 订阅由调用方完成
func InitConsumer(cfg *config.RocketMQConfig) rocketmq.PushConsumer {
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
	)
	if err != nil {
		log.L.Fatal("init rocketmq consumer failed", zap.Error(err))
	}
	return c
}

func (q *Queue) Shutdown() error {
	return q.producer.Shutdown()
}
