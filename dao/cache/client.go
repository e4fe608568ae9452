package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ClientStorage 推送节点的在线连接路由
// 多节点部署时 "用户是否在线/在哪个节点" 靠这份 redis 状态回答
type ClientStorage struct {
	redis   *redis.Client
	storage *ServerStorage
}

func NewClientStorage(redis *redis.Client, storage *ServerStorage) *ClientStorage {
	return &ClientStorage{redis: redis, storage: storage}
}

func (c *ClientStorage) Bind(ctx context.Context, sid string, clientId int64, uid uint64) error {
	_, err := c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		// 客户端与用户的映射
		pipe.HSet(ctx, c.clientKey(sid), clientId, uid)
		// 用户的所有客户端
		pipe.SAdd(ctx, c.userKey(sid, uid), clientId)
		return nil
	})
	return err
}

func (c *ClientStorage) UnBind(ctx context.Context, sid string, clientId int64) error {
	key := c.clientKey(sid)

	uidStr, err := c.redis.HGet(ctx, key, strconv.FormatInt(clientId, 10)).Result()
	if err != nil {
		return err
	}
	uid, err := strconv.ParseUint(uidStr, 10, 64)
	if err != nil {
		return err
	}

	_, err = c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, key, strconv.FormatInt(clientId, 10))
		pipe.SRem(ctx, c.userKey(sid, uid), clientId)
		return nil
	})
	return err
}

// IsOnline 判断用户是否在线[所有部署节点]
func (c *ClientStorage) IsOnline(ctx context.Context, uid uint64) bool {
	for _, sid := range c.storage.All(ctx, 1) {
		if c.IsCurrentServerOnline(ctx, sid, uid) {
			return true
		}
	}
	return false
}

// IsCurrentServerOnline 判断当前节点是否在线
func (c *ClientStorage) IsCurrentServerOnline(ctx context.Context, sid string, uid uint64) bool {
	val, err := c.redis.SCard(ctx, c.userKey(sid, uid)).Result()
	return err == nil && val > 0
}

// GetUidFromClientIds 获取当前节点用户关联的客户端ID
func (c *ClientStorage) GetUidFromClientIds(ctx context.Context, sid string, uid uint64) []int64 {
	cids := make([]int64, 0)

	items, err := c.redis.SMembers(ctx, c.userKey(sid, uid)).Result()
	if err != nil {
		return cids
	}

	for _, cid := range items {
		if cid, err := strconv.ParseInt(cid, 10, 64); err == nil {
			cids = append(cids, cid)
		}
	}

	return cids
}

func (c *ClientStorage) clientKey(sid string) string {
	return fmt.Sprintf("ws:%s:client", sid)
}

func (c *ClientStorage) userKey(sid string, uid uint64) string {
	return fmt.Sprintf("ws:%s:user:%d", sid, uid)
}
