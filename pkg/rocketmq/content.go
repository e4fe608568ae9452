package rocketmq

import (
	"Pulse/service"
	"Pulse/types"
	"context"
	"encoding/json"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
)

var _ service.EventQueue = (*Queue)(nil)

// SendContentEvent 投递内容事件到内容主题
func (q *Queue) SendContentEvent(ctx context.Context, ev *types.ContentEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.SendMsg(ctx, q.conf.ContentTopic, body)
}

// SubscribeContentEvents 订阅内容主题并交给业务处理
// 处理失败返回 ConsumeRetryLater 走 MQ 重投
func SubscribeContentEvents(c rocketmq.PushConsumer, topic string, svc service.IContentEventService) error {
	return c.Subscribe(topic, consumer.MessageSelector{},
		func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
			for _, msg := range msgs {
				if err := svc.Handle(ctx, msg.Body); err != nil {
					return consumer.ConsumeRetryLater, nil
				}
			}
			return consumer.ConsumeSuccess, nil
		})
}
