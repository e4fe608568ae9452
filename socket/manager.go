package socket

import (
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Manager 本节点的连接注册表
type Manager struct {
	clients cmap.ConcurrentMap[string, *Client]
}

func NewManager() *Manager {
	return &Manager{clients: cmap.New[*Client]()}
}

func (m *Manager) register(c *Client) {
	m.clients.Set(strconv.FormatInt(c.cid, 10), c)
}

func (m *Manager) unregister(c *Client) {
	m.clients.Remove(strconv.FormatInt(c.cid, 10))
}

func (m *Manager) Count() int {
	return m.clients.Count()
}

// BroadcastAll 推给本节点全部连接(帖子流共享频道)
func (m *Manager) BroadcastAll(body []byte) {
	for item := range m.clients.IterBuffered() {
		item.Val.Push(body)
	}
}

// PushToUser 推给某用户的所有连接(私有频道, 多端同步)
func (m *Manager) PushToUser(uid uint64, body []byte) {
	for item := range m.clients.IterBuffered() {
		if item.Val.uid == uid {
			item.Val.Push(body)
		}
	}
}

// BroadcastRoom 推给订阅了某帖子评论区的连接
func (m *Manager) BroadcastRoom(postID uint64, body []byte) {
	for item := range m.clients.IterBuffered() {
		if item.Val.InRoom(postID) {
			item.Val.Push(body)
		}
	}
}
