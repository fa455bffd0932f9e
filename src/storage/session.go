package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore 会话级的控件状态缓存，只存在于内存中，过期即丢弃
type SessionStore[T any] struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore 创建会话存储，ttl 同时决定清理周期
func NewSessionStore[T any](ttl time.Duration) *SessionStore[T] {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore[T]{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// NewID 生成新的会话ID
func (s *SessionStore[T]) NewID() string {
	return uuid.NewString()
}

// Get 读取会话状态，每次读取会续期
func (s *SessionStore[T]) Get(id string) (T, bool) {
	var zero T
	if id == "" {
		return zero, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return zero, false
	}
	state, ok := v.(T)
	if !ok {
		return zero, false
	}
	s.cache.Set(id, state, s.ttl)
	return state, true
}

// Put 保存会话状态
func (s *SessionStore[T]) Put(id string, state T) {
	s.cache.Set(id, state, s.ttl)
}

// Delete 删除会话
func (s *SessionStore[T]) Delete(id string) {
	s.cache.Delete(id)
}

// Len 当前有效会话数
func (s *SessionStore[T]) Len() int {
	return s.cache.ItemCount()
}

// TTL 会话有效期
func (s *SessionStore[T]) TTL() time.Duration {
	return s.ttl
}
