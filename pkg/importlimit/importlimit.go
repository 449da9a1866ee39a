// Package importlimit 基于Redis的导入并发限制。
// 同一用户同时只允许有限个CSV导入在处理中，
// 槽位带TTL，进程异常退出后会自动过期释放。
package importlimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter 基于Redis的并发限制器
type Limiter struct {
	client        *redis.Client
	maxConcurrent int
	keyPrefix     string
	ttl           time.Duration
}

// NewLimiter 创建并发限制器
func NewLimiter(client *redis.Client, maxConcurrent int, keyPrefix string, ttl time.Duration) *Limiter {
	return &Limiter{
		client:        client,
		maxConcurrent: maxConcurrent,
		keyPrefix:     keyPrefix,
		ttl:           ttl,
	}
}

// ErrLimitReached 并发槽位已满
var ErrLimitReached = fmt.Errorf("并发导入数量已达上限")

// Acquire 获取用户的导入槽位
func (l *Limiter) Acquire(ctx context.Context, userID uint) error {
	redisKey := l.key(userID)

	// 使用Lua脚本保证检查和递增的原子性
	script := redis.NewScript(
		`local current = redis.call('GET', KEYS[1])
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		if current >= tonumber(ARGV[1]) then
			return current + 1
		end

		local newCount = redis.call('INCR', KEYS[1])
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
		return newCount`,
	)

	result, err := script.Run(ctx, l.client, []string{redisKey}, l.maxConcurrent, int(l.ttl.Seconds())).Result()
	if err != nil {
		return fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if int(result.(int64)) > l.maxConcurrent {
		return ErrLimitReached
	}

	return nil
}

// Release 释放用户的导入槽位
func (l *Limiter) Release(ctx context.Context, userID uint) {
	redisKey := l.key(userID)

	script := redis.NewScript(
		`local current = redis.call('GET', KEYS[1])
		if current == false then
			return 0
		end
		current = tonumber(current)
		if current <= 1 then
			redis.call('DEL', KEYS[1])
			return 0
		end
		return redis.call('DECR', KEYS[1])`,
	)

	// 释放失败不向上传播，槽位会随TTL过期
	_, _ = script.Run(ctx, l.client, []string{redisKey}).Result()
}

func (l *Limiter) key(userID uint) string {
	return fmt.Sprintf("%s%d", l.keyPrefix, userID)
}
