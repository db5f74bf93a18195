package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/aretw0/tabula/pkg/store"
)

// streamBuffer is the number of diffs a slow client may fall behind before
// diffs are dropped for it.
const streamBuffer = 10

// StreamManager fans state diffs of a table out to its SSE connections.
// One watch per table is held while the table has subscribers.
type StreamManager struct {
	mu      sync.Mutex
	streams map[string]*stream
	logger  *slog.Logger
}

type stream struct {
	mu          sync.Mutex
	subscribers map[chan *domain.StateDiff]struct{}
	stop        store.Unsubscriber
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		streams: make(map[string]*stream),
		logger:  logger,
	}
}

// Subscribe opens a diff channel for t. The first value received is the full
// current state. The returned func closes the channel.
func (sm *StreamManager) Subscribe(t *registry.Table) (<-chan *domain.StateDiff, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st, ok := sm.streams[t.ID]
	if !ok {
		st = &stream{subscribers: make(map[chan *domain.StateDiff]struct{})}
		st.stop = t.Watch(func(diff *domain.StateDiff) {
			st.broadcast(sm.logger, diff)
		})
		sm.streams[t.ID] = st
	}

	ch := make(chan *domain.StateDiff, streamBuffer)
	ch <- &domain.StateDiff{Table: t.Name, Changed: t.State()}

	st.mu.Lock()
	st.subscribers[ch] = struct{}{}
	st.mu.Unlock()

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()

		st.mu.Lock()
		if _, ok := st.subscribers[ch]; !ok {
			st.mu.Unlock()
			return
		}
		delete(st.subscribers, ch)
		close(ch)
		empty := len(st.subscribers) == 0
		st.mu.Unlock()

		if empty {
			st.stop()
			delete(sm.streams, t.ID)
		}
	}
}

// Count returns the number of open connections on the table with the given ID.
func (sm *StreamManager) Count(tableID string) int {
	sm.mu.Lock()
	st, ok := sm.streams[tableID]
	sm.mu.Unlock()
	if !ok {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.subscribers)
}

// broadcast never blocks: it runs inside store notification delivery.
func (st *stream) broadcast(logger *slog.Logger, diff *domain.StateDiff) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for ch := range st.subscribers {
		select {
		case ch <- diff:
		default:
			logger.Warn("SSE: Client buffer full, dropping diff", "table", diff.Table)
		}
	}
}
