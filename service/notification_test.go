package service

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"sync"
	"testing"
	"time"
)

// fakeNotificationStore 内存版通知存储
type fakeNotificationStore struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, item *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.CreatedAt = time.Now()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeNotificationStore) GetByID(ctx context.Context, notificationID uint64) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == notificationID {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, notificationID, recipientID uint64, readAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == notificationID && n.RecipientID == recipientID && n.ReadAt == nil {
			t := readAt
			n.ReadAt = &t
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationStore) MarkUnread(ctx context.Context, notificationID, recipientID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == notificationID && n.RecipientID == recipientID && n.ReadAt != nil {
			n.ReadAt = nil
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, recipientID uint64, readAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows int64
	for _, n := range f.items {
		if n.RecipientID == recipientID && n.ReadAt == nil {
			t := readAt
			n.ReadAt = &t
			rows++
		}
	}
	return rows, nil
}

func (f *fakeNotificationStore) ListByRecipient(ctx context.Context, recipientID uint64, cursor int64, limit int) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		if f.items[i].RecipientID == recipientID {
			cp := *f.items[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) ExistsForSource(ctx context.Context, recipientID uint64, notificationType string, source types.TargetRef) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.RecipientID == recipientID && n.NotificationType == notificationType &&
			n.SourceType == string(source.Kind) && n.SourceID == source.ID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.items {
		if n.RecipientID == recipientID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

// fakeSourceResolver gone=true 模拟来源已删除
type fakeSourceResolver struct {
	gone bool
}

func (f *fakeSourceResolver) ResolvePreview(ctx context.Context, ref types.TargetRef) (*types.NotifiablePreview, error) {
	if f.gone {
		return nil, nil
	}
	return &types.NotifiablePreview{Type: string(ref.Kind), ID: ref.ID, Preview: "预览内容"}, nil
}

type fakeUserReader struct{}

func (f *fakeUserReader) GetProfiles(ctx context.Context, userIDs []uint64) (map[uint64]types.UserProfile, error) {
	out := make(map[uint64]types.UserProfile, len(userIDs))
	for _, id := range userIDs {
		out[id] = types.UserProfile{ID: id, Name: "user"}
	}
	return out, nil
}

// fakeUnread 内存角标
type fakeUnread struct {
	mu     sync.Mutex
	counts map[uint64]int64
	cached map[uint64]bool
}

func newFakeUnread() *fakeUnread {
	return &fakeUnread{counts: make(map[uint64]int64), cached: make(map[uint64]bool)}
}

func (f *fakeUnread) Incr(ctx context.Context, uid uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[uid]++
	f.cached[uid] = true
}

func (f *fakeUnread) Decr(ctx context.Context, uid uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[uid] > 0 {
		f.counts[uid]--
	}
}

func (f *fakeUnread) Get(ctx context.Context, uid uint64) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.cached[uid] {
		return 0, false
	}
	return f.counts[uid], true
}

func (f *fakeUnread) Set(ctx context.Context, uid uint64, count int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[uid] = count
	f.cached[uid] = true
}

func (f *fakeUnread) Reset(ctx context.Context, uid uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counts, uid)
	delete(f.cached, uid)
}

func newTestNotificationService() (*NotificationService, *fakeNotificationStore, *fakeSourceResolver, *fakeUnread) {
	store := &fakeNotificationStore{}
	sources := &fakeSourceResolver{}
	unread := newFakeUnread()
	svc := &NotificationService{
		Store:     store,
		Sources:   sources,
		Users:     &fakeUserReader{},
		Unread:    unread,
		Broadcast: newFakeBroadcaster(),
	}
	return svc, store, sources, unread
}

func TestNotifySelfSuppressed(t *testing.T) {
	svc, store, _, _ := newTestNotificationService()
	ctx := context.Background()

	svc.Notify(ctx, &NotifyInput{RecipientID: 1, ActorID: 1, NotificationType: types.NoticeMention, Source: types.PostRef(1)})
	if len(store.items) != 0 {
		t.Error("自己触发自己的通知应静默跳过")
	}
}

// 类型是封闭集合, 集合外的值不落库也不推送
func TestNotifyRejectsUnknownType(t *testing.T) {
	svc, store, _, unread := newTestNotificationService()
	ctx := context.Background()

	svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: "totally_bogus_type", Source: types.PostRef(1)})
	if len(store.items) != 0 {
		t.Errorf("未知类型不应落库, 得到 %d 条", len(store.items))
	}
	if n, _ := unread.Get(ctx, 2); n != 0 {
		t.Errorf("未知类型不应计入角标, 得到 %d", n)
	}

	for _, typ := range []string{
		types.NoticeCommentOnPost, types.NoticeReplyToComment, types.NoticeMention,
		types.NoticeReactionOnPost, types.NoticeReactionOnComment,
	} {
		svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: typ, Source: types.PostRef(1)})
	}
	if len(store.items) != 5 {
		t.Errorf("封闭集合内的类型都应投递, 得到 %d 条", len(store.items))
	}
}

func TestNotifyIdempotentPerSource(t *testing.T) {
	svc, store, _, _ := newTestNotificationService()
	ctx := context.Background()
	input := &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: types.NoticeMention, Source: types.PostRef(1)}

	svc.Notify(ctx, input)
	svc.Notify(ctx, input)
	if len(store.items) != 1 {
		t.Errorf("同一(收件人,类型,来源)应只投递一次, 得到 %d 条", len(store.items))
	}

	// 不同类型不受影响
	svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: types.NoticeReactionOnPost, Source: types.PostRef(1)})
	if len(store.items) != 2 {
		t.Errorf("不同类型应各自投递, 得到 %d 条", len(store.items))
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	svc, store, _, unread := newTestNotificationService()
	ctx := context.Background()

	svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: types.NoticeMention, Source: types.PostRef(1)})
	id := store.items[0].ID

	if err := svc.MarkRead(ctx, 2, id); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if store.items[0].ReadAt == nil {
		t.Error("应已标记已读")
	}
	if n, _ := unread.Get(ctx, 2); n != 0 {
		t.Errorf("角标应归零, 得到 %d", n)
	}

	// 重复标记: 幂等成功
	if err := svc.MarkRead(ctx, 2, id); err != nil {
		t.Errorf("重复标记应幂等成功: %v", err)
	}

	// 不存在
	if err := svc.MarkRead(ctx, 2, 99999); err == nil {
		t.Error("不存在的通知应报 NotFound")
	}

	// 他人的通知
	if err := svc.MarkRead(ctx, 3, id); err == nil {
		t.Error("他人的通知应报 NotFound")
	}
}

func TestMarkUnreadRestoresBadge(t *testing.T) {
	svc, store, _, unread := newTestNotificationService()
	ctx := context.Background()

	svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: types.NoticeMention, Source: types.PostRef(1)})
	id := store.items[0].ID
	_ = svc.MarkRead(ctx, 2, id)

	if err := svc.markUnread(ctx, 2, id); err != nil {
		t.Fatalf("markUnread error: %v", err)
	}
	if store.items[0].ReadAt != nil {
		t.Error("应恢复为未读")
	}
	if n, _ := unread.Get(ctx, 2); n != 1 {
		t.Errorf("角标应恢复为 1, 得到 %d", n)
	}

	// 本就未读: 不动角标
	if err := svc.markUnread(ctx, 2, id); err != nil {
		t.Fatalf("markUnread error: %v", err)
	}
	if n, _ := unread.Get(ctx, 2); n != 1 {
		t.Errorf("重复撤销不应累加角标, 得到 %d", n)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, store, _, _ := newTestNotificationService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: types.NoticeMention, Source: types.PostRef(uint64(i + 1))})
	}

	rows, err := svc.MarkAllRead(ctx, 2)
	if err != nil {
		t.Fatalf("MarkAllRead error: %v", err)
	}
	if rows != 3 {
		t.Errorf("期望影响 3 行, 得到 %d", rows)
	}
	for _, n := range store.items {
		if n.ReadAt == nil {
			t.Error("应全部已读")
		}
	}
	if n, _ := svc.UnreadCount(ctx, 2); n != 0 {
		t.Errorf("角标应归零, 得到 %d", n)
	}

	// 再次全读: 0 行, 不报错
	rows, err = svc.MarkAllRead(ctx, 2)
	if err != nil || rows != 0 {
		t.Errorf("重复全读应为 0 行: rows=%d err=%v", rows, err)
	}
}

// 来源已删除的通知照常返回且 notifiable 为 null
func TestListWithGoneSource(t *testing.T) {
	svc, _, sources, _ := newTestNotificationService()
	ctx := context.Background()

	svc.Notify(ctx, &NotifyInput{RecipientID: 2, ActorID: 1, NotificationType: types.NoticeCommentOnPost, Source: types.CommentRef(7)})

	sources.gone = true
	resp, err := svc.List(ctx, 2, 0, 20)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(resp.Notifications) != 1 {
		t.Fatalf("期望 1 条通知, 得到 %d", len(resp.Notifications))
	}
	if resp.Notifications[0].Notifiable != nil {
		t.Error("来源已删除时 notifiable 应为 null")
	}
	if resp.Notifications[0].NotificationType != types.NoticeCommentOnPost {
		t.Error("通知本身的元数据应完整保留")
	}
}

func TestUnreadCountCacheFallback(t *testing.T) {
	svc, store, _, unread := newTestNotificationService()
	ctx := context.Background()

	// 直接塞 DB, 模拟缓存缺失
	_ = store.Create(ctx, &models.Notification{ID: 1, RecipientID: 5})
	_ = store.Create(ctx, &models.Notification{ID: 2, RecipientID: 5})

	count, err := svc.UnreadCount(ctx, 5)
	if err != nil {
		t.Fatalf("UnreadCount error: %v", err)
	}
	if count != 2 {
		t.Errorf("期望回源得到 2, 得到 %d", count)
	}
	// 回源后应已回写缓存
	if n, ok := unread.Get(ctx, 5); !ok || n != 2 {
		t.Errorf("应回写缓存: ok=%v n=%d", ok, n)
	}
}
