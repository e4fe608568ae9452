package client

import (
	"Pulse/types"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// PostView 客户端侧的帖子视图
// UserReaction 是观察者私有状态, 只有直接响应允许写它,
// 共享频道事件(reaction_changed / post_update)永远不能覆盖它
type PostView struct {
	ID            uint64
	UserID        uint64
	Title         string
	Description   string
	ReactionCount int64
	CommentCount  int64
	UserReaction  string
}

// NotificationView 客户端侧的通知视图
type NotificationView struct {
	ID               uint64
	NotificationType string
	Read             bool
	Gone             bool // 来源已删除
	Preview          string
}

type pendingToggle struct {
	targetID uint64
	prev     string // 乐观前的 user_reaction
	next     string
}

// 乐观创建的本地临时ID, 高位置位保证不与服务端雪花ID相撞
const pendingIDBase = uint64(1) << 63

// Store 实时状态仓库
// 所有变更(服务端事件/乐观变更/确认回滚)都排进同一条队列串行应用,
// 因此不存在并发读写竞争, 事件也不会乱序交叉
type Store struct {
	ops  chan func()
	done chan struct{}

	posts         map[uint64]*PostView
	order         []uint64
	notifications []*NotificationView
	unread        int64

	pending      map[string]*pendingToggle
	pendingPosts map[string]uint64 // correlationID -> 临时ID
	nextTempID   uint64
}

func NewStore() *Store {
	s := &Store{
		ops:          make(chan func(), 256),
		done:         make(chan struct{}),
		posts:        make(map[uint64]*PostView),
		pending:      make(map[string]*pendingToggle),
		pendingPosts: make(map[string]uint64),
		nextTempID:   pendingIDBase,
	}
	go s.loop()
	return s
}

func (s *Store) loop() {
	defer close(s.done)
	for op := range s.ops {
		op()
	}
}

func (s *Store) Close() {
	close(s.ops)
	<-s.done
}

// do 串行执行并等待完成
func (s *Store) do(fn func()) {
	doneCh := make(chan struct{})
	s.ops <- func() {
		fn()
		close(doneCh)
	}
	<-doneCh
}

// ApplyServerEvent 应用一条推送事件(原始 PushEvent JSON)
// 未知事件与未知目标一律忽略, 客户端永远不因陌生数据崩溃
func (s *Store) ApplyServerEvent(raw []byte) {
	event := gjson.GetBytes(raw, "event").String()
	payload := gjson.GetBytes(raw, "payload")
	s.do(func() {
		s.applyEvent(event, payload)
	})
}

func (s *Store) applyEvent(event string, payload gjson.Result) {
	switch event {
	case types.EventPostNew:
		s.upsertPost(payload.Get("post"), true)
	case types.EventPostUpdate:
		s.upsertPost(payload.Get("post"), false)
	case types.EventPostDelete:
		s.removePost(payload.Get("post_id").Uint())
	case types.EventReactionChanged:
		s.applyReactionChanged(payload)
	case types.EventCommentNew:
		if p, ok := s.posts[payload.Get("comment.post_id").Uint()]; ok {
			p.CommentCount++
		}
	case types.EventCommentDelete:
		if p, ok := s.posts[payload.Get("post_id").Uint()]; ok && p.CommentCount > 0 {
			p.CommentCount--
		}
	case types.EventNewNotification:
		s.applyNewNotification(payload)
	case types.EventNotificationRead:
		s.markNotificationRead(payload.Get("notification_id").Uint())
	case types.EventAllNotificationsRead:
		for _, n := range s.notifications {
			n.Read = true
		}
		s.unread = 0
	}
}

// upsertPost 共享频道来的帖子数据永远不携带 user_reaction,
// 合并时保留本地已有的观察者私有状态
func (s *Store) upsertPost(post gjson.Result, prepend bool) {
	id := post.Get("id").Uint()
	if id == 0 {
		return
	}

	existing, ok := s.posts[id]
	view := &PostView{
		ID:            id,
		UserID:        post.Get("user_id").Uint(),
		Title:         post.Get("title").String(),
		Description:   post.Get("description").String(),
		ReactionCount: post.Get("reactions_count").Int(),
		CommentCount:  post.Get("comments_count").Int(),
	}
	if ok {
		view.UserReaction = existing.UserReaction
	}
	// 直接响应里才会有该字段, 有就以它为准
	if ur := post.Get("user_reaction"); ur.Exists() {
		view.UserReaction = ur.String()
	}

	s.posts[id] = view
	if !ok {
		if prepend {
			s.order = append([]uint64{id}, s.order...)
		} else {
			s.order = append(s.order, id)
		}
	}
}

func (s *Store) removePost(id uint64) {
	if _, ok := s.posts[id]; !ok {
		return
	}
	s.dropPost(id)
}

// applyReactionChanged 只更新聚合计数, 绝不触碰 UserReaction
func (s *Store) applyReactionChanged(payload gjson.Result) {
	if payload.Get("target_type").String() != string(types.TargetPost) {
		return
	}
	if p, ok := s.posts[payload.Get("target_id").Uint()]; ok {
		p.ReactionCount = payload.Get("reactions_count").Int()
	}
}

func (s *Store) applyNewNotification(payload gjson.Result) {
	id := payload.Get("id").Uint()
	for _, n := range s.notifications {
		if n.ID == id {
			return
		}
	}
	view := &NotificationView{
		ID:               id,
		NotificationType: payload.Get("notification_type").String(),
		Gone:             !payload.Get("notifiable").Exists() || payload.Get("notifiable").Type == gjson.Null,
		Preview:          payload.Get("notifiable.preview").String(),
	}
	s.notifications = append([]*NotificationView{view}, s.notifications...)
	s.unread++
}

func (s *Store) markNotificationRead(id uint64) {
	for _, n := range s.notifications {
		if n.ID == id && !n.Read {
			n.Read = true
			if s.unread > 0 {
				s.unread--
			}
		}
	}
}

// MergePosts 合并一页帖子(直接响应, 可携带 user_reaction), 按ID去重
func (s *Store) MergePosts(raw []byte) {
	page := gjson.ParseBytes(raw)
	s.do(func() {
		page.Get("posts").ForEach(func(_, post gjson.Result) bool {
			s.upsertPost(post, false)
			return true
		})
	})
}

// OptimisticCreatePost 以临时ID把未确认的新帖置顶展示, 返回关联ID
func (s *Store) OptimisticCreatePost(userID uint64, title, description string) string {
	correlationID := uuid.NewString()
	s.do(func() {
		tempID := s.nextTempID
		s.nextTempID++
		s.posts[tempID] = &PostView{
			ID:          tempID,
			UserID:      userID,
			Title:       title,
			Description: description,
		}
		s.order = append([]uint64{tempID}, s.order...)
		s.pendingPosts[correlationID] = tempID
	})
	return correlationID
}

// ConfirmCreatePost 用服务端的权威帖子替换临时条目
// post_new 广播可能先到, 此时真实条目已存在, 只去掉临时条目, 绝不产生重复行
func (s *Store) ConfirmCreatePost(correlationID string, raw []byte) {
	post := gjson.ParseBytes(raw)
	s.do(func() {
		tempID, ok := s.pendingPosts[correlationID]
		if !ok {
			return
		}
		delete(s.pendingPosts, correlationID)

		realID := post.Get("id").Uint()
		if realID == 0 {
			s.dropPost(tempID)
			return
		}

		if _, exists := s.posts[realID]; exists {
			s.dropPost(tempID)
		} else if temp, ok := s.posts[tempID]; ok {
			// 原位换成真实ID, 保持临时条目的展示位置
			delete(s.posts, tempID)
			temp.ID = realID
			s.posts[realID] = temp
			for i, pid := range s.order {
				if pid == tempID {
					s.order[i] = realID
					break
				}
			}
		} else {
			s.posts[realID] = &PostView{ID: realID}
			s.order = append([]uint64{realID}, s.order...)
		}
		s.mergePostFields(realID, post)
	})
}

// RollbackCreatePost 创建失败, 移除临时条目
func (s *Store) RollbackCreatePost(correlationID string) {
	s.do(func() {
		tempID, ok := s.pendingPosts[correlationID]
		if !ok {
			return
		}
		delete(s.pendingPosts, correlationID)
		s.dropPost(tempID)
	})
}

func (s *Store) dropPost(id uint64) {
	delete(s.posts, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) mergePostFields(id uint64, post gjson.Result) {
	p, ok := s.posts[id]
	if !ok {
		return
	}
	p.UserID = post.Get("user_id").Uint()
	p.Title = post.Get("title").String()
	p.Description = post.Get("description").String()
	p.ReactionCount = post.Get("reactions_count").Int()
	p.CommentCount = post.Get("comments_count").Int()
	if ur := post.Get("user_reaction"); ur.Exists() {
		p.UserReaction = ur.String()
	}
}

// OptimisticToggle 本地乐观应用一次反应切换, 返回关联ID
// 服务端确认前计数与 user_reaction 都按本地预测展示
func (s *Store) OptimisticToggle(postID uint64, reactionType string) string {
	correlationID := uuid.NewString()
	s.do(func() {
		p, ok := s.posts[postID]
		if !ok {
			return
		}
		op := &pendingToggle{targetID: postID, prev: p.UserReaction}
		switch {
		case p.UserReaction == "":
			p.UserReaction = reactionType
			p.ReactionCount++
		case p.UserReaction == reactionType:
			p.UserReaction = ""
			if p.ReactionCount > 0 {
				p.ReactionCount--
			}
		default:
			p.UserReaction = reactionType
		}
		op.next = p.UserReaction
		s.pending[correlationID] = op
	})
	return correlationID
}

// ConfirmToggle 用服务端结果替换本地预测
func (s *Store) ConfirmToggle(correlationID string, result *types.ToggleReactionResult) {
	s.do(func() {
		op, ok := s.pending[correlationID]
		if !ok {
			return
		}
		delete(s.pending, correlationID)

		p, ok := s.posts[op.targetID]
		if !ok {
			return
		}
		p.ReactionCount = result.ReactionCount
		if result.Action == types.ToggleRemoved {
			p.UserReaction = ""
		} else if result.Reaction != nil {
			p.UserReaction = result.Reaction.ReactionType
		}
	})
}

// RollbackToggle 请求失败, 恢复乐观前的状态
func (s *Store) RollbackToggle(correlationID string) {
	s.do(func() {
		op, ok := s.pending[correlationID]
		if !ok {
			return
		}
		delete(s.pending, correlationID)

		p, ok := s.posts[op.targetID]
		if !ok {
			return
		}
		// 还原 user_reaction 并撤销对应的计数变化
		switch {
		case op.prev == "" && op.next != "":
			if p.ReactionCount > 0 {
				p.ReactionCount--
			}
		case op.prev != "" && op.next == "":
			p.ReactionCount++
		}
		p.UserReaction = op.prev
	})
}

// Post 读取单个帖子视图的拷贝
func (s *Store) Post(id uint64) (PostView, bool) {
	var view PostView
	var ok bool
	s.do(func() {
		var p *PostView
		p, ok = s.posts[id]
		if ok {
			view = *p
		}
	})
	return view, ok
}

// Posts 按顺序读取全部帖子视图
func (s *Store) Posts() []PostView {
	var out []PostView
	s.do(func() {
		out = make([]PostView, 0, len(s.order))
		for _, id := range s.order {
			if p, ok := s.posts[id]; ok {
				out = append(out, *p)
			}
		}
	})
	return out
}

// UnreadCount 未读角标
func (s *Store) UnreadCount() int64 {
	var n int64
	s.do(func() { n = s.unread })
	return n
}

// Notifications 通知列表拷贝
func (s *Store) Notifications() []NotificationView {
	var out []NotificationView
	s.do(func() {
		out = make([]NotificationView, 0, len(s.notifications))
		for _, n := range s.notifications {
			out = append(out, *n)
		}
	})
	return out
}
