package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devonoff/internal/clock"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable 凭证存储不可用
var ErrStoreUnavailable = errors.New("credential store unavailable")

// RedisCredentialStore 基于 Redis 的凭证存储，TTL 由 Redis 负责
type RedisCredentialStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCredentialStore 创建 Redis 凭证存储
func NewRedisCredentialStore(client redis.UniversalClient, prefix string) *RedisCredentialStore {
	return &RedisCredentialStore{client: client, prefix: normalizePrefix(prefix)}
}

// SetData 写入带 TTL 的值
func (s *RedisCredentialStore) SetData(ctx context.Context, key, value string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	if err := s.client.Set(ctx, buildKey(s.prefix, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// GetData 读取值，键不存在或已过期时 ok 为 false
func (s *RedisCredentialStore) GetData(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, ErrStoreUnavailable
	}
	val, err := s.client.Get(ctx, buildKey(s.prefix, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, key, err)
	}
	return val, true, nil
}

// DeleteData 删除键，不存在时视为成功
func (s *RedisCredentialStore) DeleteData(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	if err := s.client.Del(ctx, buildKey(s.prefix, key)).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCredentialStore 进程内凭证存储，Redis 关闭时及测试使用
type MemoryCredentialStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

// NewMemoryCredentialStore 创建进程内凭证存储，clk 为空时使用系统时钟
func NewMemoryCredentialStore(clk clock.Clock) *MemoryCredentialStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &MemoryCredentialStore{
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

// SetData 写入带 TTL 的值，ttl<=0 表示不过期
func (s *MemoryCredentialStore) SetData(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.clock.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// GetData 读取值，过期条目惰性清除
func (s *MemoryCredentialStore) GetData(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !s.clock.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// DeleteData 删除键
func (s *MemoryCredentialStore) DeleteData(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len 未过期条目数
func (s *MemoryCredentialStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	count := 0
	for _, entry := range s.entries {
		if entry.expiresAt.IsZero() || now.Before(entry.expiresAt) {
			count++
		}
	}
	return count
}
