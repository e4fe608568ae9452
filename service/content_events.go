package service

import (
	"Pulse/pkg/log"
	"Pulse/types"
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

var _ IContentEventService = (*ContentEventService)(nil)

// IContentEventService 内容事件消费入口
// api-server 投递, 消费侧在这里把事件翻译成提及扇出
type IContentEventService interface {
	Handle(ctx context.Context, body []byte) error
}

type ContentEventService struct {
	Mentions IMentionService
}

// Handle 解析并处理一条内容事件
// 解析失败的消息直接丢弃(记日志), 重投也不可能成功
func (s *ContentEventService) Handle(ctx context.Context, body []byte) error {
	var ev types.ContentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.L.Error("内容事件解析失败", zap.ByteString("body", body), zap.Error(err))
		return nil
	}

	var data types.ContentEventData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		log.L.Error("内容事件数据解析失败", zap.String("type", ev.Type), zap.Error(err))
		return nil
	}

	switch ev.Type {
	case types.ContentPostCreated, types.ContentPostUpdated, types.ContentCommentCreated:
		if err := s.Mentions.ProcessContent(ctx, ev.ActorID, data.Target); err != nil {
			// 返回错误让 MQ 走重投
			log.L.Warn("提及扇出失败, 等待重投",
				zap.String("type", ev.Type),
				zap.String("target", data.Target.String()),
				zap.Error(err))
			return err
		}
	default:
		log.L.Warn("未知内容事件类型", zap.String("type", ev.Type))
	}
	return nil
}
