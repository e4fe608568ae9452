package socket

import (
	"Pulse/dao/cache"
	"Pulse/pkg/context"
	"Pulse/pkg/log"
	"Pulse/pkg/server"
	"Pulse/pkg/snowflake"
	ctx "context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WsHandler websocket 接入
type WsHandler struct {
	Manager *Manager
	Clients *cache.ClientStorage
}

// Conn 升级连接并注册到本节点
func (h *WsHandler) Conn(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.L.Error("websocket upgrade error", zap.Error(err))
		return err
	}

	client := &Client{
		cid:   snowflake.GenID(),
		uid:   userID,
		conn:  conn,
		send:  make(chan []byte, 64),
		done:  make(chan struct{}),
		rooms: make(map[uint64]struct{}),
	}

	h.Manager.register(client)

	bindCtx, cancel := ctx.WithTimeout(ctx.Background(), 3*time.Second)
	defer cancel()
	// 在线路由是尽力而为, 失败不影响本次连接
	if err := h.Clients.Bind(bindCtx, server.GetServerId(), client.cid, userID); err != nil {
		log.L.Warn("bind client error", zap.Int64("cid", client.cid), zap.Error(err))
	}

	log.L.Info("websocket connected",
		zap.Int64("cid", client.cid),
		zap.Uint64("uid", userID),
		zap.Int("online", h.Manager.Count()))

	go client.writePump()
	go client.readPump(h.onClose)

	return nil
}

func (h *WsHandler) onClose(client *Client) {
	h.Manager.unregister(client)

	unbindCtx, cancel := ctx.WithTimeout(ctx.Background(), 3*time.Second)
	defer cancel()
	if err := h.Clients.UnBind(unbindCtx, server.GetServerId(), client.cid); err != nil {
		log.L.Warn("unbind client error", zap.Int64("cid", client.cid), zap.Error(err))
	}

	log.L.Info("websocket closed", zap.Int64("cid", client.cid), zap.Uint64("uid", client.uid))
}
