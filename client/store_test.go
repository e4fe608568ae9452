package client

import (
	"Pulse/models"
	"Pulse/types"
	"fmt"
	"testing"
)

func seedPost(s *Store, id uint64, count int64, userReaction string) {
	s.MergePosts([]byte(fmt.Sprintf(
		`{"posts":[{"id":%d,"user_id":9,"title":"t","description":"d","reactions_count":%d,"comments_count":0,"user_reaction":%q}]}`,
		id, count, userReaction)))
}

// 共享频道的 post_update 不携带 user_reaction, 合并时必须保留本地私有状态
func TestUpsertPreservesUserReaction(t *testing.T) {
	s := NewStore()
	defer s.Close()

	seedPost(s, 1, 3, "like")

	s.ApplyServerEvent([]byte(`{"event":"post_update","payload":{"post":{"id":1,"user_id":9,"title":"新标题","reactions_count":5,"comments_count":2}}}`))

	p, ok := s.Post(1)
	if !ok {
		t.Fatal("帖子应存在")
	}
	if p.Title != "新标题" || p.ReactionCount != 5 || p.CommentCount != 2 {
		t.Errorf("共享字段应被更新: %+v", p)
	}
	if p.UserReaction != "like" {
		t.Errorf("user_reaction 应保留, 得到 %q", p.UserReaction)
	}

	// 直接响应里显式携带该字段时以它为准, 包括显式为空
	s.MergePosts([]byte(`{"posts":[{"id":1,"user_id":9,"reactions_count":5,"user_reaction":""}]}`))
	p, _ = s.Post(1)
	if p.UserReaction != "" {
		t.Errorf("显式字段应覆盖本地值, 得到 %q", p.UserReaction)
	}
}

// reaction_changed 是共享事件, 只动聚合计数
func TestReactionChangedTouchesCountOnly(t *testing.T) {
	s := NewStore()
	defer s.Close()

	seedPost(s, 1, 3, "love")

	s.ApplyServerEvent([]byte(`{"event":"reaction_changed","payload":{"target_type":"post","target_id":1,"reactions_count":4}}`))

	p, _ := s.Post(1)
	if p.ReactionCount != 4 {
		t.Errorf("计数应更新为 4, 得到 %d", p.ReactionCount)
	}
	if p.UserReaction != "love" {
		t.Errorf("user_reaction 绝不能被共享事件覆盖, 得到 %q", p.UserReaction)
	}

	// 评论目标与未知目标静默忽略
	s.ApplyServerEvent([]byte(`{"event":"reaction_changed","payload":{"target_type":"comment","target_id":1,"reactions_count":99}}`))
	s.ApplyServerEvent([]byte(`{"event":"reaction_changed","payload":{"target_type":"post","target_id":42,"reactions_count":99}}`))
	if p, _ := s.Post(1); p.ReactionCount != 4 {
		t.Errorf("评论事件不应影响帖子计数, 得到 %d", p.ReactionCount)
	}
}

func TestOptimisticToggleConfirm(t *testing.T) {
	s := NewStore()
	defer s.Close()

	seedPost(s, 1, 3, "")

	cid := s.OptimisticToggle(1, "like")
	p, _ := s.Post(1)
	if p.UserReaction != "like" || p.ReactionCount != 4 {
		t.Errorf("乐观态应先行展示: %+v", p)
	}

	// 服务端确认, 以权威计数为准
	s.ConfirmToggle(cid, &types.ToggleReactionResult{
		Action:        types.ToggleAdded,
		Reaction:      &models.Reaction{ReactionType: "like"},
		ReactionCount: 7,
	})
	p, _ = s.Post(1)
	if p.UserReaction != "like" || p.ReactionCount != 7 {
		t.Errorf("确认后应采用服务端结果: %+v", p)
	}

	// 同一关联ID重复确认无效果
	s.ConfirmToggle(cid, &types.ToggleReactionResult{Action: types.ToggleRemoved, ReactionCount: 0})
	if p, _ := s.Post(1); p.ReactionCount != 7 {
		t.Errorf("重复确认应被忽略, 得到 %d", p.ReactionCount)
	}
}

func TestOptimisticToggleRollback(t *testing.T) {
	s := NewStore()
	defer s.Close()

	// 新增方向: 回滚撤销 +1
	seedPost(s, 1, 3, "")
	cid := s.OptimisticToggle(1, "like")
	s.RollbackToggle(cid)
	p, _ := s.Post(1)
	if p.UserReaction != "" || p.ReactionCount != 3 {
		t.Errorf("回滚后应还原: %+v", p)
	}

	// 取消方向: 回滚撤销 -1
	seedPost(s, 2, 5, "like")
	cid = s.OptimisticToggle(2, "like")
	if p, _ := s.Post(2); p.UserReaction != "" || p.ReactionCount != 4 {
		t.Fatalf("乐观取消应生效: %+v", p)
	}
	s.RollbackToggle(cid)
	p, _ = s.Post(2)
	if p.UserReaction != "like" || p.ReactionCount != 5 {
		t.Errorf("回滚后应还原: %+v", p)
	}

	// 换类型方向: 计数不动, 只还原类型
	seedPost(s, 3, 2, "like")
	cid = s.OptimisticToggle(3, "love")
	s.RollbackToggle(cid)
	p, _ = s.Post(3)
	if p.UserReaction != "like" || p.ReactionCount != 2 {
		t.Errorf("换类型回滚后应还原: %+v", p)
	}
}

// 乐观创建在确认时被权威条目替换, 广播先到也不会出现重复行
func TestOptimisticCreateReplaceNotDuplicate(t *testing.T) {
	s := NewStore()
	defer s.Close()

	cid := s.OptimisticCreatePost(7, "草稿", "正文")
	posts := s.Posts()
	if len(posts) != 1 || posts[0].Title != "草稿" {
		t.Fatalf("乐观条目应置顶展示: %+v", posts)
	}

	s.ConfirmCreatePost(cid, []byte(`{"id":100,"user_id":7,"title":"草稿","description":"正文","reactions_count":0,"comments_count":0}`))
	posts = s.Posts()
	if len(posts) != 1 || posts[0].ID != 100 {
		t.Fatalf("确认后应替换为真实ID: %+v", posts)
	}

	// 广播先到的情况: post_new 先建好真实条目, 确认只清理临时条目
	cid = s.OptimisticCreatePost(7, "第二篇", "")
	s.ApplyServerEvent([]byte(`{"event":"post_new","payload":{"post":{"id":101,"user_id":7,"title":"第二篇","reactions_count":0,"comments_count":0}}}`))
	s.ConfirmCreatePost(cid, []byte(`{"id":101,"user_id":7,"title":"第二篇"}`))
	posts = s.Posts()
	if len(posts) != 2 {
		t.Fatalf("同一帖子绝不能出现两行: %+v", posts)
	}

	// 回滚移除临时条目
	cid = s.OptimisticCreatePost(7, "将失败", "")
	s.RollbackCreatePost(cid)
	if len(s.Posts()) != 2 {
		t.Errorf("回滚后临时条目应消失, 得到 %d 行", len(s.Posts()))
	}
}

// 分页合并按ID去重, 重复页不产生重复行
func TestMergePostsDedup(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.MergePosts([]byte(`{"posts":[{"id":1,"reactions_count":1},{"id":2,"reactions_count":2}]}`))
	s.MergePosts([]byte(`{"posts":[{"id":2,"reactions_count":3},{"id":3,"reactions_count":4}]}`))

	posts := s.Posts()
	if len(posts) != 3 {
		t.Fatalf("期望 3 条帖子, 得到 %d", len(posts))
	}
	if posts[0].ID != 1 || posts[1].ID != 2 || posts[2].ID != 3 {
		t.Errorf("顺序应保持首次出现的次序: %+v", posts)
	}
	if posts[1].ReactionCount != 3 {
		t.Errorf("重复页应更新已有行, 得到 %d", posts[1].ReactionCount)
	}
}

// 删除后到达的陈旧事件一律静默忽略
func TestPostDeleteTolerance(t *testing.T) {
	s := NewStore()
	defer s.Close()

	seedPost(s, 1, 3, "")
	s.ApplyServerEvent([]byte(`{"event":"post_delete","payload":{"post_id":1}}`))
	if _, ok := s.Post(1); ok {
		t.Fatal("帖子应已移除")
	}

	s.ApplyServerEvent([]byte(`{"event":"reaction_changed","payload":{"target_type":"post","target_id":1,"reactions_count":9}}`))
	s.ApplyServerEvent([]byte(`{"event":"comment_new","payload":{"comment":{"post_id":1}}}`))
	s.ApplyServerEvent([]byte(`{"event":"post_delete","payload":{"post_id":1}}`))
	if len(s.Posts()) != 0 {
		t.Error("陈旧事件不应复活已删除的帖子")
	}
}

func TestNotificationFlow(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.ApplyServerEvent([]byte(`{"event":"new_notification","payload":{"id":11,"notification_type":"mention","notifiable":{"type":"post","id":1,"preview":"你好"}}}`))
	s.ApplyServerEvent([]byte(`{"event":"new_notification","payload":{"id":12,"notification_type":"comment_on_post","notifiable":null}}`))
	// 同ID重复推送去重
	s.ApplyServerEvent([]byte(`{"event":"new_notification","payload":{"id":11,"notification_type":"mention"}}`))

	list := s.Notifications()
	if len(list) != 2 {
		t.Fatalf("期望 2 条通知, 得到 %d", len(list))
	}
	if list[0].ID != 12 || list[1].ID != 11 {
		t.Errorf("新通知应置顶: %+v", list)
	}
	if !list[0].Gone {
		t.Error("notifiable 为 null 时应标记来源已删除")
	}
	if list[1].Preview != "你好" {
		t.Errorf("预览应保留, 得到 %q", list[1].Preview)
	}
	if s.UnreadCount() != 2 {
		t.Errorf("未读应为 2, 得到 %d", s.UnreadCount())
	}

	s.ApplyServerEvent([]byte(`{"event":"notification_read","payload":{"notification_id":11}}`))
	if s.UnreadCount() != 1 {
		t.Errorf("单条已读后未读应为 1, 得到 %d", s.UnreadCount())
	}
	// 重复已读幂等
	s.ApplyServerEvent([]byte(`{"event":"notification_read","payload":{"notification_id":11}}`))
	if s.UnreadCount() != 1 {
		t.Errorf("重复已读不应继续递减, 得到 %d", s.UnreadCount())
	}

	s.ApplyServerEvent([]byte(`{"event":"all_notifications_read","payload":{}}`))
	if s.UnreadCount() != 0 {
		t.Errorf("全读后未读应为 0, 得到 %d", s.UnreadCount())
	}
	for _, n := range s.Notifications() {
		if !n.Read {
			t.Error("全读后所有通知应为已读")
		}
	}
}

// 未知事件与坏载荷不应影响既有状态
func TestUnknownEventIgnored(t *testing.T) {
	s := NewStore()
	defer s.Close()

	seedPost(s, 1, 3, "")
	s.ApplyServerEvent([]byte(`{"event":"totally_unknown","payload":{"id":1}}`))
	s.ApplyServerEvent([]byte(`not even json`))
	s.ApplyServerEvent([]byte(`{"event":"post_update","payload":{"post":{"title":"无ID"}}}`))

	if p, _ := s.Post(1); p.ReactionCount != 3 {
		t.Errorf("状态不应被破坏: %+v", p)
	}
	if len(s.Posts()) != 1 {
		t.Errorf("不应出现幽灵帖子: %d", len(s.Posts()))
	}
}
