package service

import (
	"Pulse/models"
	"Pulse/types"
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
)

// fakeMentionSource 固定正文
type fakeMentionSource struct {
	text  string
	found bool
	err   error
}

func (f *fakeMentionSource) MentionText(ctx context.Context, ref types.TargetRef) (string, bool, error) {
	return f.text, f.found, f.err
}

// fakeUserResolver 标识符 -> 用户
type fakeUserResolver struct {
	users map[string]*models.User
}

func (f *fakeUserResolver) ResolveByIdentifiers(ctx context.Context, identifiers []string) ([]*models.User, error) {
	var out []*models.User
	for _, ident := range identifiers {
		if u, ok := f.users[ident]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestExtractMentions(t *testing.T) {
	svc := &MentionService{}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"用户名", "hello @alice_01 and @bob_the_builder", []string{"alice_01", "bob_the_builder"}},
		{"邮箱", "ping @carol@example.com please", []string{"carol@example.com"}},
		{"混合去重", "@alice_01 @alice_01 @carol@example.com @alice_01", []string{"alice_01", "carol@example.com"}},
		{"太短的用户名不命中", "hi @ab ok", nil},
		{"无提及", "plain text without mentions", nil},
		{"保持出现顺序", "@zed_99 then @abc_1", []string{"zed_99", "abc_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ExtractMentions(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractMentions(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestProcessContentFanOut(t *testing.T) {
	notifier := newFakeNotifier()
	svc := &MentionService{
		Source: &fakeMentionSource{text: "cc @alice_01 @bob_02 @alice@example.com", found: true},
		Users: &fakeUserResolver{users: map[string]*models.User{
			"alice_01":          {ID: 11, Username: "alice_01"},
			"bob_02":            {ID: 12, Username: "bob_02"},
			"alice@example.com": {ID: 11, Email: "alice@example.com"}, // 与 alice_01 同一人
		}},
		Notifications: notifier,
	}

	err := svc.ProcessContent(context.Background(), 99, types.PostRef(1))
	if err != nil {
		t.Fatalf("ProcessContent error: %v", err)
	}

	// 同一用户被用户名和邮箱各提一次, 只收一条
	if len(notifier.inputs) != 2 {
		t.Fatalf("期望 2 条通知, 得到 %d", len(notifier.inputs))
	}
	var got []uint64
	for _, in := range notifier.inputs {
		got = append(got, in.RecipientID)
		if in.NotificationType != types.NoticeMention {
			t.Errorf("期望 mention 通知, 得到 %s", in.NotificationType)
		}
		if in.ActorID != 99 {
			t.Errorf("actor 错误: %d", in.ActorID)
		}
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if !reflect.DeepEqual(got, []uint64{11, 12}) {
		t.Errorf("收件人错误: %v", got)
	}
}

// 自己 @ 自己不产生通知
func TestProcessContentSelfMention(t *testing.T) {
	notifier := newFakeNotifier()
	svc := &MentionService{
		Source: &fakeMentionSource{text: "note to @myself_1", found: true},
		Users: &fakeUserResolver{users: map[string]*models.User{
			"myself_1": {ID: 99},
		}},
		Notifications: notifier,
	}

	if err := svc.ProcessContent(context.Background(), 99, types.PostRef(1)); err != nil {
		t.Fatalf("ProcessContent error: %v", err)
	}
	if len(notifier.inputs) != 0 {
		t.Errorf("自提及不应有通知, 得到 %d 条", len(notifier.inputs))
	}
}

// 未解析出的标识符静默忽略
func TestProcessContentUnknownIdent(t *testing.T) {
	notifier := newFakeNotifier()
	svc := &MentionService{
		Source:        &fakeMentionSource{text: "hi @nobody_42", found: true},
		Users:         &fakeUserResolver{users: map[string]*models.User{}},
		Notifications: notifier,
	}

	if err := svc.ProcessContent(context.Background(), 1, types.PostRef(1)); err != nil {
		t.Fatalf("ProcessContent error: %v", err)
	}
	if len(notifier.inputs) != 0 {
		t.Errorf("未知标识符不应有通知")
	}
}

// 内容在消费前被删除: 静默结束
func TestProcessContentGoneSource(t *testing.T) {
	notifier := newFakeNotifier()
	svc := &MentionService{
		Source:        &fakeMentionSource{found: false},
		Users:         &fakeUserResolver{},
		Notifications: notifier,
	}

	if err := svc.ProcessContent(context.Background(), 1, types.CommentRef(7)); err != nil {
		t.Fatalf("来源消失不应报错: %v", err)
	}
	if len(notifier.inputs) != 0 {
		t.Errorf("来源消失不应有通知")
	}
}

// 读取来源失败要上抛, 让 MQ 重投
func TestProcessContentSourceError(t *testing.T) {
	svc := &MentionService{
		Source:        &fakeMentionSource{err: errors.New("db down")},
		Users:         &fakeUserResolver{},
		Notifications: newFakeNotifier(),
	}

	if err := svc.ProcessContent(context.Background(), 1, types.PostRef(1)); err == nil {
		t.Error("读取失败应上抛错误")
	}
}
