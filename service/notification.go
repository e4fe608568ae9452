package service

import (
	"Pulse/models"
	"Pulse/pkg/log"
	"Pulse/pkg/snowflake"
	"Pulse/types"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var _ INotificationService = (*NotificationService)(nil)

type INotificationService interface {
	Notify(ctx context.Context, input *NotifyInput)
	List(ctx context.Context, recipientID uint64, cursor int64, limit int) (*types.NotificationListResponse, error)
	MarkRead(ctx context.Context, recipientID, notificationID uint64) error
	MarkAllRead(ctx context.Context, recipientID uint64) (int64, error)
	UnreadCount(ctx context.Context, recipientID uint64) (int64, error)
}

// NotifyInput 一次通知投递
type NotifyInput struct {
	RecipientID      uint64
	ActorID          uint64
	NotificationType string
	Source           types.TargetRef
	Ext              datatypes.JSON
}

type NotificationService struct {
	Store     NotificationStore
	Sources   SourceResolver
	Users     UserReader
	Unread    UnreadCounter
	Broadcast IBroadcastService
}

// Notify 创建通知并推送
// 自己触发自己的通知一律静默跳过; 同一(收件人,类型,来源)只投递一次
// 通知是副作用, 任何失败只记日志, 不上抛
func (s *NotificationService) Notify(ctx context.Context, input *NotifyInput) {
	if input.RecipientID == 0 || input.RecipientID == input.ActorID {
		return
	}
	if !types.ValidNoticeType(input.NotificationType) {
		log.L.Warn("未知通知类型, 丢弃",
			zap.String("type", input.NotificationType),
			zap.Uint64("recipient", input.RecipientID))
		return
	}

	exists, err := s.Store.ExistsForSource(ctx, input.RecipientID, input.NotificationType, input.Source)
	if err != nil {
		log.L.Warn("通知去重查询失败", zap.Uint64("recipient", input.RecipientID), zap.Error(err))
		return
	}
	if exists {
		return
	}

	item := &models.Notification{
		ID:               uint64(snowflake.GenID()),
		RecipientID:      input.RecipientID,
		ActorID:          input.ActorID,
		NotificationType: input.NotificationType,
		SourceType:       string(input.Source.Kind),
		SourceID:         input.Source.ID,
		Ext:              input.Ext,
	}
	if err := s.Store.Create(ctx, item); err != nil {
		log.L.Warn("通知写入失败",
			zap.Uint64("recipient", input.RecipientID),
			zap.String("type", input.NotificationType),
			zap.Error(err))
		return
	}

	s.Unread.Incr(ctx, input.RecipientID)
	s.pushNew(ctx, item)
}

// pushNew 实时推送新通知到收件人私有频道
func (s *NotificationService) pushNew(ctx context.Context, item *models.Notification) {
	source := types.TargetRef{Kind: types.TargetKind(item.SourceType), ID: item.SourceID}
	preview, err := s.Sources.ResolvePreview(ctx, source)
	if err != nil {
		log.L.Warn("通知来源解析失败", zap.Uint64("id", item.ID), zap.Error(err))
	}

	actor := types.UserProfile{ID: item.ActorID}
	if profiles, err := s.Users.GetProfiles(ctx, []uint64{item.ActorID}); err == nil {
		if p, ok := profiles[item.ActorID]; ok {
			actor = p
		}
	}

	s.Broadcast.NotifyUser(ctx, item.RecipientID, types.EventNewNotification, &types.NewNotificationPayload{
		ID:               item.ID,
		NotificationType: item.NotificationType,
		Actor:            actor,
		Notifiable:       preview,
		CreatedAt:        item.CreatedAt,
	})
}

// List 通知列表, 来源已删除的通知照常返回且 notifiable 为 null
func (s *NotificationService) List(ctx context.Context, recipientID uint64, cursor int64, limit int) (*types.NotificationListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	items, err := s.Store.ListByRecipient(ctx, recipientID, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	actorIDs := make([]uint64, 0, len(items))
	for _, n := range items {
		actorIDs = append(actorIDs, n.ActorID)
	}
	profiles, err := s.Users.GetProfiles(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	list := make([]*types.NotificationItem, 0, len(items))
	for _, n := range items {
		source := types.TargetRef{Kind: types.TargetKind(n.SourceType), ID: n.SourceID}
		// 来源可能随时被删除, 解析失败按已删除处理
		preview, err := s.Sources.ResolvePreview(ctx, source)
		if err != nil {
			log.L.Warn("通知来源解析失败", zap.Uint64("id", n.ID), zap.Error(err))
			preview = nil
		}
		list = append(list, &types.NotificationItem{
			ID:               n.ID,
			NotificationType: n.NotificationType,
			Actor:            profiles[n.ActorID],
			Notifiable:       preview,
			ReadAt:           n.ReadAt,
			CreatedAt:        n.CreatedAt,
		})
	}

	unread, err := s.UnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	resp := &types.NotificationListResponse{
		Notifications: list,
		HasMore:       hasMore,
		UnreadCount:   unread,
	}
	if len(items) > 0 {
		resp.NextCursor = items[len(items)-1].CreatedAt.UnixMilli()
	}
	return resp, nil
}

// MarkRead 标记单条已读, 已读的重复标记是幂等的
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint64) error {
	rows, err := s.Store.MarkRead(ctx, notificationID, recipientID, time.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		// 没有命中未读行: 要么不存在/不属于当前用户, 要么早已读过
		item, err := s.Store.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}
		if item == nil || item.RecipientID != recipientID {
			return NewNotFoundError("通知不存在")
		}
		return nil
	}

	s.Unread.Decr(ctx, recipientID)
	s.Broadcast.NotifyUser(ctx, recipientID, types.EventNotificationRead, &types.NotificationReadPayload{
		NotificationID: notificationID,
	})
	return nil
}

// markUnread 撤销已读, 内部补偿流程用, 不对外暴露路由
func (s *NotificationService) markUnread(ctx context.Context, recipientID, notificationID uint64) error {
	rows, err := s.Store.MarkUnread(ctx, notificationID, recipientID)
	if err != nil {
		return err
	}
	if rows > 0 {
		s.Unread.Incr(ctx, recipientID)
	}
	return nil
}

// MarkAllRead 全部已读, 单条 UPDATE 完成, 返回影响行数
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	rows, err := s.Store.MarkAllRead(ctx, recipientID, time.Now())
	if err != nil {
		return 0, err
	}

	s.Unread.Reset(ctx, recipientID)
	if rows > 0 {
		s.Broadcast.NotifyUser(ctx, recipientID, types.EventAllNotificationsRead, &types.AllNotificationsReadPayload{})
	}
	return rows, nil
}

// UnreadCount 未读数, 缓存优先, 缺失回源并回写
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	if count, ok := s.Unread.Get(ctx, recipientID); ok {
		return count, nil
	}
	count, err := s.Store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	s.Unread.Set(ctx, recipientID, count)
	return count, nil
}
