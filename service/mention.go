package service

import (
	"Pulse/pkg/log"
	"Pulse/types"
	"context"
	"regexp"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var _ IMentionService = (*MentionService)(nil)

type IMentionService interface {
	ExtractMentions(text string) []string
	ProcessContent(ctx context.Context, actorID uint64, source types.TargetRef) error
}

type MentionService struct {
	Source        MentionSource
	Users         MentionUserResolver
	Notifications INotificationService
}

// @ 后面跟邮箱或用户名(3~30位字母数字下划线)
// 邮箱分支在前, 否则 @a@b.com 会被用户名分支截断
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}|[A-Za-z0-9_]{3,30})`)

// 扇出的最大并发
const mentionFanOutWorkers = 8

// ExtractMentions 从正文提取 @ 标识符, 原样去重并保持出现顺序
// 这里只做文本识别, 大小写归一交给解析层
func (s *MentionService) ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	idents := make([]string, 0, len(matches))
	for _, m := range matches {
		ident := m[1]
		if _, ok := seen[ident]; ok {
			continue
		}
		seen[ident] = struct{}{}
		idents = append(idents, ident)
	}
	return idents
}

// ProcessContent 对一条内容执行提及扇出
// 内容已不存在时静默结束; 单个收件人的失败不影响其他人
func (s *MentionService) ProcessContent(ctx context.Context, actorID uint64, source types.TargetRef) error {
	if !source.Valid() {
		return NewValidationError("不支持的提及来源")
	}

	text, found, err := s.Source.MentionText(ctx, source)
	if err != nil {
		return err
	}
	if !found {
		// 内容在消费到事件前已被删除, 正常现象
		return nil
	}

	idents := s.ExtractMentions(text)
	if len(idents) == 0 {
		return nil
	}

	users, err := s.Users.ResolveByIdentifiers(ctx, idents)
	if err != nil {
		return err
	}

	// 同一用户被 @username 和 @email 各提一次也只收一条
	recipients := make([]uint64, 0, len(users))
	seen := make(map[uint64]struct{}, len(users))
	for _, u := range users {
		if u.ID == actorID {
			// 自己 @ 自己不通知
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		recipients = append(recipients, u.ID)
	}
	if len(recipients) == 0 {
		return nil
	}

	p := pool.New().WithMaxGoroutines(mentionFanOutWorkers)
	for _, recipientID := range recipients {
		p.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					log.L.Error("提及通知 panic",
						zap.Uint64("recipient", recipientID),
						zap.Any("recover", r))
				}
			}()
			s.Notifications.Notify(ctx, &NotifyInput{
				RecipientID:      recipientID,
				ActorID:          actorID,
				NotificationType: types.NoticeMention,
				Source:           source,
			})
		})
	}
	p.Wait()

	log.L.Info("提及扇出完成",
		zap.String("source", source.String()),
		zap.Int("identifiers", len(idents)),
		zap.Int("recipients", len(recipients)))
	return nil
}
