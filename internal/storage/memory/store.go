package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"invest-forecast/internal/storage"
)

const DefaultTTL = 24 * time.Hour

type entry struct {
	run       *storage.Run
	expiresAt time.Time
}

// Store keeps runs in memory until their TTL passes.
type Store struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]entry
	ttl  time.Duration
	now  func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		runs: make(map[uuid.UUID]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *Store) Save(_ context.Context, run *storage.Run) error {
	if run == nil {
		return errors.New("nil run")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = entry{run: run, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*storage.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.runs[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, errors.Wrap(storage.ErrNotFound, id.String())
	}
	return e.run, nil
}

// Cleanup drops expired runs until ctx is done.
func (s *Store) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purge()
		}
	}
}

func (s *Store) purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.runs {
		if now.After(e.expiresAt) {
			delete(s.runs, id)
			n++
		}
	}
	return n
}

var _ storage.RunStore = (*Store)(nil)
