// Package session guards the record store with per-identity locks so that
// two events from the same respondent cannot interleave their
// read-modify-write across collaborator calls.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmelnikov/healthwave/internal/logging"
	"github.com/dmelnikov/healthwave/pkg/domain"
	"github.com/dmelnikov/healthwave/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes record access per respondent identity. It uses
// reference counting to garbage collect locks for idle identities.
type Manager struct {
	store ports.RecordStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Active per-identity locks

	locker  ports.DistributedLocker // Optional, for multi-replica setups
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager over the given record store.
func NewManager(store ports.RecordStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must Lock entry.mu and call release(identity) after unlocking.
func (m *Manager) acquire(identity string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[identity]
	if !exists {
		entry = &lockEntry{}
		m.locks[identity] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[identity]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, identity)
	}
}

// Load retrieves the record for (identity, date) under the identity lock.
func (m *Manager) Load(ctx context.Context, identity, date string) (*domain.Record, error) {
	var rec *domain.Record
	err := m.WithLock(ctx, identity, func(ctx context.Context) error {
		var err error
		rec, err = m.store.Load(ctx, identity, date)
		return err
	})
	return rec, err
}

// Save persists the record for (identity, date) under the identity lock.
func (m *Manager) Save(ctx context.Context, identity, date string, rec *domain.Record) error {
	return m.WithLock(ctx, identity, func(ctx context.Context) error {
		return m.store.Save(ctx, identity, date, rec)
	})
}

// Store returns the underlying record store.
func (m *Manager) Store() ports.RecordStore {
	return m.store
}

// WithLock executes fn while holding the identity's lock. Nested calls for
// the same identity deadlock; callers use the raw Store inside fn.
func (m *Manager) WithLock(ctx context.Context, identity string, fn func(context.Context) error) error {
	entry := m.acquire(identity)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(identity)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, identity, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"identity", identity,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
