package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
	mu       sync.Mutex
	inflight int
	overlap  bool
}

func (s *SlowStore) Save(ctx context.Context, tableID string, state domain.State) error {
	s.mu.Lock()
	s.inflight++
	if s.inflight > 1 {
		s.overlap = true
	}
	s.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
	return s.Store.Save(ctx, tableID, state)
}

func TestManager_SerializesWritesPerTable(t *testing.T) {
	store := &SlowStore{Store: memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(val int) {
			defer wg.Done()
			assert.NoError(t, manager.Save(ctx, "people", domain.State{"n": val}))
		}(i)
	}
	wg.Wait()

	assert.False(t, store.overlap, "writes to one table must not overlap")
}

func TestManager_LoadOrInit(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	state, err := manager.LoadOrInit(ctx, "people", domain.State{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, domain.State{"a": 1}, state)

	state, err = manager.LoadOrInit(ctx, "people", domain.State{"a": 2})
	require.NoError(t, err)
	assert.Equal(t, domain.State{"a": 1}, state, "an existing snapshot is returned as is")
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("unavailable")
}

type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	ttl      time.Duration
	unlocked int
}

func (l *recordingLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	l.ttl = ttl
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, "people", domain.State{}))
	_, err := manager.Load(ctx, "people")
	require.NoError(t, err)

	assert.Equal(t, []string{"people", "people"}, locker.keys)
	assert.Equal(t, time.Second, locker.ttl)
	assert.Equal(t, 2, locker.unlocked)

	failing := session.NewManager(memory.NewStore(), session.WithLocker(failingLocker{}))
	assert.Error(t, failing.Save(ctx, "people", domain.State{}))
}
