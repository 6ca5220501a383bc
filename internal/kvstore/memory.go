// internal/kvstore/memory.go
package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryStore keeps keys in process memory. Expired keys are invisible
// immediately and removed by a background sweep.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]*memoryItem
	logger *zap.Logger
	now    func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a memory store and starts its cleanup loop
func NewMemoryStore(cleanupInterval time.Duration, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	s := &MemoryStore{
		items:  make(map[string]*memoryItem),
		logger: logger,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	go s.cleanup(cleanupInterval)

	return s
}

func (s *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	item := &memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	return ok && !item.expired(s.now()), nil
}

func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item, ok := s.items[key]
	if !ok || item.expired(now) {
		item = &memoryItem{value: "0"}
		if window > 0 {
			item.expiresAt = now.Add(window)
		}
		s.items[key] = item
	}

	current, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		current = 0
	}
	current++
	item.value = strconv.FormatInt(current, 10)

	return current, nil
}

// TTL returns the time left before key expires, zero if it has no expiry
func (s *MemoryStore) TTL(key string) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok || item.expiresAt.IsZero() {
		return 0
	}
	return item.expiresAt.Sub(s.now())
}

// Len returns the number of stored keys, including expired ones not yet swept
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Health(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, item := range s.items {
		if item.expired(now) {
			delete(s.items, key)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug("Removed expired keys", zap.Int("count", removed))
	}
	return removed
}
