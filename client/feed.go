package client

import (
	"Pulse/pkg/log"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Feed 推送通道消费者, 把服务端事件灌进 Store
type Feed struct {
	store *Store
	url   string
	token string

	conn *websocket.Conn
}

func NewFeed(store *Store, url, token string) *Feed {
	return &Feed{store: store, url: url, token: token}
}

// Run 连接并持续消费, 断开后指数退避重连
func (f *Feed) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := f.connect(ctx); err != nil {
			log.L.Warn("feed connect error", zap.Error(err))
		} else {
			backoff = time.Second
			f.consume(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (f *Feed) connect(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+f.token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, header)
	if err != nil {
		return err
	}
	f.conn = conn
	return nil
}

func (f *Feed) consume(ctx context.Context) {
	defer f.conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = f.conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := f.conn.ReadMessage()
		if err != nil {
			log.L.Info("feed disconnected", zap.Error(err))
			return
		}
		f.store.ApplyServerEvent(message)
	}
}

// JoinPost 订阅某帖子的评论区事件
func (f *Feed) JoinPost(postID uint64) error {
	return f.send("join_post", map[string]any{"post_id": postID})
}

// LeavePost 退订
func (f *Feed) LeavePost(postID uint64) error {
	return f.send("leave_post", map[string]any{"post_id": postID})
}

func (f *Feed) send(event string, payload any) error {
	if f.conn == nil {
		return websocket.ErrCloseSent
	}
	raw, err := json.Marshal(map[string]any{"event": event, "payload": payload})
	if err != nil {
		return err
	}
	_ = f.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return f.conn.WriteMessage(websocket.TextMessage, raw)
}
