package registry

import (
	"sync"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/store"
)

// Table is a live table. Its adapter stays active while it is registered, so
// state changes requested through it are always synchronized.
type Table struct {
	ID   string
	Name string

	output Output

	// mu serializes state mutations on this table.
	mu sync.Mutex

	engineMu    sync.RWMutex
	engine      *tabula.Engine[domain.Record]
	unsubscribe store.Unsubscriber
}

// Summary is the wire view of a table.
type Summary struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Columns     []string     `json:"columns"`
	Rows        int          `json:"rows"`
	State       domain.State `json:"state"`
}

func newTable(id, name string, output Output) *Table {
	t := &Table{ID: id, Name: name, output: output}
	t.unsubscribe = output.Subscribe(func(e *tabula.Engine[domain.Record]) {
		t.engineMu.Lock()
		t.engine = e
		t.engineMu.Unlock()
	})
	return t
}

func (t *Table) close() {
	t.unsubscribe()
}

// Output returns the adapter store backing the table.
func (t *Table) Output() Output {
	return t.output
}

// Engine returns the table engine.
func (t *Table) Engine() *tabula.Engine[domain.Record] {
	t.engineMu.RLock()
	defer t.engineMu.RUnlock()
	return t.engine
}

// State returns the state currently in effect.
func (t *Table) State() domain.State {
	return t.Engine().State()
}

// Grid resolves headers and cells to display text.
func (t *Table) Grid() (headers []string, rows [][]string) {
	return t.Engine().Grid()
}

// Summary describes the table.
func (t *Table) Summary() Summary {
	e := t.Engine()
	opts := e.Options()

	s := Summary{
		ID:      t.ID,
		Name:    t.Name,
		Columns: []string{},
		Rows:    len(opts.Data),
		State:   e.State(),
	}
	if title, ok := opts.Meta["title"].(string); ok {
		s.Title = title
	}
	if desc, ok := opts.Meta["description"].(string); ok {
		s.Description = desc
	}
	for _, c := range e.VisibleColumns() {
		s.Columns = append(s.Columns, c.ID)
	}
	return s
}

// Patch requests every key of patch to be set, keeping the other keys.
// It returns the state in effect afterwards.
func (t *Table) Patch(patch domain.State) domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Engine().SetState(domain.Apply(func(prev domain.State) domain.State {
		return domain.MergeState(prev, patch)
	}))
	return t.State()
}

// Replace requests the whole state to be replaced.
func (t *Table) Replace(state domain.State) domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Engine().SetState(domain.Replace(state))
	return t.State()
}

// Reset requests a return to the initial state.
func (t *Table) Reset() domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Engine().ResetState()
	return t.State()
}

// Watch calls fn with the diff of every state change, starting with the
// full current state.
func (t *Table) Watch(fn func(*domain.StateDiff)) store.Unsubscriber {
	var (
		mu    sync.Mutex
		last  domain.State
		first = true
	)
	return t.output.Subscribe(func(e *tabula.Engine[domain.Record]) {
		state := e.State()

		mu.Lock()
		diff := domain.Diff(t.Name, last, state)
		initial := first
		last, first = state, false
		mu.Unlock()

		if !initial && diff.IsEmpty() {
			return
		}
		if diff == nil {
			diff = &domain.StateDiff{Table: t.Name, Changed: map[string]any{}}
		}
		fn(diff)
	})
}
