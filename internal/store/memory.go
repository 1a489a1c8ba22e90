package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	run       *Run
	expiresAt time.Time
}

// MemoryStore keeps runs in process for a fixed TTL. It backs the API when
// no database is configured, so results can be fetched again by ID for a while.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[uuid.UUID]*memoryEntry
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore starts a store with the given TTL (default 1h) and a
// background goroutine removing expired runs. Call Close to stop it.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &MemoryStore{
		store: make(map[uuid.UUID]*memoryEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	every := 5 * time.Minute
	if ttl < every {
		every = ttl
	}
	go s.cleanup(every)
	return s
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[run.ID] = &memoryEntry{run: run, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.store[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry.run, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	now := time.Now()
	out := make([]*Run, 0, len(s.store))
	for _, entry := range s.store {
		if now.After(entry.expiresAt) {
			continue
		}
		out = append(out, entry.run)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

// cleanup periodically removes expired runs.
func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, entry := range s.store {
				if now.After(entry.expiresAt) {
					delete(s.store, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
