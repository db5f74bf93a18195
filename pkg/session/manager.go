package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to table snapshots, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, then call release(tableID) after unlocking.
func (m *Manager) acquire(tableID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[tableID]
	if !exists {
		entry = &lockEntry{}
		m.locks[tableID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(tableID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[tableID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, tableID)
	}
}

// Load retrieves a table snapshot from the store.
func (m *Manager) Load(ctx context.Context, tableID string) (domain.State, error) {
	var state domain.State
	err := m.WithLock(ctx, tableID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, tableID)
		return err
	})
	return state, err
}

// LoadOrInit loads a table snapshot. If none exists, initial is saved and returned.
func (m *Manager) LoadOrInit(ctx context.Context, tableID string, initial domain.State) (domain.State, error) {
	var state domain.State
	err := m.WithLock(ctx, tableID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, tableID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrTableNotFound) {
			return fmt.Errorf("failed to check table existence: %w", err)
		}

		state = initial.Clone()
		if err := m.store.Save(ctx, tableID, state); err != nil {
			return fmt.Errorf("failed to initialize table: %w", err)
		}
		return nil
	})
	return state, err
}

// Save persists a table snapshot.
func (m *Manager) Save(ctx context.Context, tableID string, state domain.State) error {
	return m.WithLock(ctx, tableID, func(ctx context.Context) error {
		return m.store.Save(ctx, tableID, state)
	})
}

// Delete removes a table snapshot from the store.
func (m *Manager) Delete(ctx context.Context, tableID string) error {
	return m.WithLock(ctx, tableID, func(ctx context.Context) error {
		return m.store.Delete(ctx, tableID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes fn while holding the lock for the table.
func (m *Manager) WithLock(ctx context.Context, tableID string, fn func(context.Context) error) error {
	entry := m.acquire(tableID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(tableID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, tableID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"table", tableID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
