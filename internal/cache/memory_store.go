package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     int64
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCodeStore is an in-process CodeStore used when redis is disabled.
// Eviction is lazy: expired entries are dropped on access.
type MemoryCodeStore struct {
	mu       sync.Mutex
	codes    map[string]memoryEntry
	attempts map[string]memoryEntry
}

// NewMemoryCodeStore creates an empty in-process store.
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		codes:    make(map[string]memoryEntry),
		attempts: make(map[string]memoryEntry),
	}
}

func (s *MemoryCodeStore) PutCode(_ context.Context, phone string, code int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[codeKey(phone)] = memoryEntry{
		value:     int64(code),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryCodeStore) GetCode(_ context.Context, phone string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := codeKey(phone)
	entry, ok := s.codes[key]
	if !ok {
		return 0, false, nil
	}
	if entry.expired(time.Now()) {
		delete(s.codes, key)
		return 0, false, nil
	}
	return int(entry.value), true, nil
}

func (s *MemoryCodeStore) DeleteCode(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, codeKey(phone))
	return nil
}

func (s *MemoryCodeStore) IncrAttempts(_ context.Context, phone string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptsKey(phone)
	now := time.Now()
	entry, ok := s.attempts[key]
	if !ok || entry.expired(now) {
		entry = memoryEntry{value: 0, expiresAt: now.Add(window)}
	}
	entry.value++
	s.attempts[key] = entry
	return entry.value, nil
}

func (s *MemoryCodeStore) GetAttempts(_ context.Context, phone string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptsKey(phone)
	entry, ok := s.attempts[key]
	if !ok {
		return 0, nil
	}
	if entry.expired(time.Now()) {
		delete(s.attempts, key)
		return 0, nil
	}
	return entry.value, nil
}

func (s *MemoryCodeStore) ClearAttempts(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptsKey(phone))
	return nil
}
