package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未读通知计数过期时间 - 14天
const unreadExpireAt = 14 * 24 * time.Hour

// UnreadStorage 未读通知角标计数
// 只是展示加速, DB 的 read_at IS NULL 才是权威数据
type UnreadStorage struct {
	redis *redis.Client
}

func NewUnreadStorage(rds *redis.Client) *UnreadStorage {
	return &UnreadStorage{rds}
}

// Incr 未读数自增
func (u *UnreadStorage) Incr(ctx context.Context, uid uint64) {
	pipe := u.redis.Pipeline()
	pipe.Incr(ctx, u.name(uid))
	pipe.Expire(ctx, u.name(uid), unreadExpireAt)
	_, _ = pipe.Exec(ctx)
}

// Decr 未读数自减, 不出现负数
func (u *UnreadStorage) Decr(ctx context.Context, uid uint64) {
	script := redis.NewScript(`
		local v = redis.call('GET', KEYS[1])
		if v and tonumber(v) > 0 then
			return redis.call('DECR', KEYS[1])
		end
		return 0
	`)
	_ = script.Run(ctx, u.redis, []string{u.name(uid)}).Err()
}

// Get 获取未读数, 缓存缺失时返回 (0, false)
func (u *UnreadStorage) Get(ctx context.Context, uid uint64) (int64, bool) {
	v, err := u.redis.Get(ctx, u.name(uid)).Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Set 回写未读数(DB 兜底查询后)
func (u *UnreadStorage) Set(ctx context.Context, uid uint64, count int64) {
	_ = u.redis.Set(ctx, u.name(uid), count, unreadExpireAt).Err()
}

// Reset 未读数清零(全部已读)
func (u *UnreadStorage) Reset(ctx context.Context, uid uint64) {
	u.redis.Del(ctx, u.name(uid))
}

// notice:unread:{uid}
func (u *UnreadStorage) name(uid uint64) string {
	return fmt.Sprintf("notice:unread:%d", uid)
}
