package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreConfig configures session lifetime management.
type StoreConfig struct {
	// TTL is how long an idle session survives before the janitor drops it.
	TTL time.Duration
}

type storeEntry struct {
	sess     *Session
	lastSeen time.Time
}

// Store keeps live sessions keyed by their cookie id. Sessions are created
// lazily on first access and evicted after TTL of inactivity; everything
// lives in memory and dies with the process.
type Store struct {
	cfg  StoreConfig
	deps Deps

	mu      sync.Mutex
	entries map[string]*storeEntry
}

// NewStore creates an empty Store.
func NewStore(cfg StoreConfig, deps Deps) *Store {
	return &Store{
		cfg:     cfg,
		deps:    deps,
		entries: make(map[string]*storeEntry),
	}
}

// Get returns the session for id, refreshing its idle timer. It reports
// false when the id is unknown (expired or never issued).
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.sess, true
}

// Create builds a new session under a fresh id and loads its catalog. The
// catalog fetch is the session's single startup request; its failure leaves
// an empty catalog behind (already logged by the session).
func (s *Store) Create(ctx context.Context) *Session {
	sess := New(uuid.New().String(), s.deps)
	sess.LoadCatalog(ctx)

	s.mu.Lock()
	s.entries[sess.ID] = &storeEntry{sess: sess, lastSeen: time.Now()}
	s.mu.Unlock()
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Janitor evicts idle sessions every TTL/2 until ctx is cancelled.
func (s *Store) Janitor(ctx context.Context) error {
	interval := s.cfg.TTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.evict(now)
		}
	}
}

func (s *Store) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) >= s.cfg.TTL {
			delete(s.entries, id)
			s.deps.Logger.Debug("Session expired", zap.String("session", id))
		}
	}
}
