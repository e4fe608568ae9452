package socket

import (
	"Pulse/pkg/log"
	"Pulse/types"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second
	// 心跳超时, 必须大于 ping 间隔
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4 << 10
)

// Client 单条 websocket 连接
type Client struct {
	cid  int64
	uid  uint64
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu    sync.RWMutex
	rooms map[uint64]struct{} // 已加入的帖子评论区

	closed atomic.Bool
}

func (c *Client) Cid() int64  { return c.cid }
func (c *Client) Uid() uint64 { return c.uid }

// InRoom 是否订阅了某帖子的评论区
func (c *Client) InRoom(postID uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rooms[postID]
	return ok
}

func (c *Client) joinRoom(postID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[postID] = struct{}{}
}

func (c *Client) leaveRoom(postID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, postID)
}

// Push 入队一条待发送消息, 连接已满/已关时丢弃
// send 永不 close, 关闭只通过 done 广播, 并发 Push 不会撞上已关通道
func (c *Client) Push(body []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- body:
	case <-c.done:
	default:
		// 慢消费者, 实时事件宁可丢也不阻塞分发
		log.L.Warn("client send buffer full", zap.Int64("cid", c.cid), zap.Uint64("uid", c.uid))
	}
}

// PushEvent 组包并入队
func (c *Client) PushEvent(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	body, err := json.Marshal(&types.PushEvent{Event: event, Payload: raw})
	if err != nil {
		return
	}
	c.Push(body)
}

func (c *Client) close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// readPump 读取客户端指令
// 客户端只会发少量控制消息: join_post / leave_post / ping
func (c *Client) readPump(onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.L.Info("websocket read error", zap.Int64("cid", c.cid), zap.Error(err))
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	event := gjson.GetBytes(message, "event").String()
	switch event {
	case "join_post":
		postID := gjson.GetBytes(message, "payload.post_id").Uint()
		if postID > 0 {
			c.joinRoom(postID)
		}
	case "leave_post":
		postID := gjson.GetBytes(message, "payload.post_id").Uint()
		if postID > 0 {
			c.leaveRoom(postID)
		}
	case "ping":
		c.PushEvent("pong", struct{}{})
	default:
		log.L.Warn("unknown client event", zap.String("event", event), zap.Int64("cid", c.cid))
	}
}

// writePump 发送队列 + 心跳
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case body := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
