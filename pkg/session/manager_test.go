package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmelnikov/healthwave/pkg/domain"
	"github.com/dmelnikov/healthwave/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates collaborator latency to provoke lost updates if
// per-identity locking is missing.
type SlowStore struct {
	data map[string]*domain.Record
	mu   sync.Mutex
}

func (s *SlowStore) key(identity, date string) string {
	return identity + "/" + date
}

func (s *SlowStore) Save(ctx context.Context, identity, date string, rec *domain.Record) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Record)
	}
	copied := *rec
	s.data[s.key(identity, date)] = &copied
	return nil
}

func (s *SlowStore) Load(ctx context.Context, identity, date string) (*domain.Record, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.data[s.key(identity, date)]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, domain.ErrRecordNotFound
}

func TestManager_SerializesReadModifyWrite(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	const identity, date = "100", "2021-11-10"

	require.NoError(t, manager.Save(ctx, identity, date, domain.NewRecord()))

	// Each goroutine appends one rune to the diagnosis. Without the
	// per-identity lock the read-modify-write pairs overlap across the
	// store's IO delay and updates get lost.
	var wg sync.WaitGroup
	const writers = 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, identity, func(ctx context.Context) error {
				rec, err := store.Load(ctx, identity, date)
				if err != nil {
					return err
				}
				rec.Diagnosis += "x"
				return store.Save(ctx, identity, date, rec)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rec, err := manager.Load(ctx, identity, date)
	require.NoError(t, err)
	assert.Len(t, rec.Diagnosis, writers)
}

func TestManager_IndependentIdentitiesDoNotBlock(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = manager.WithLock(ctx, "100", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	done := make(chan struct{})
	go func() {
		_ = manager.WithLock(ctx, "200", func(ctx context.Context) error {
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for identity 200 blocked behind identity 100")
	}
	close(release)
}

func TestManager_LoadMissing(t *testing.T) {
	manager := session.NewManager(&SlowStore{})

	_, err := manager.Load(context.Background(), "999", "2021-11-10")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
