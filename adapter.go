package tabula

import (
	"fmt"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/store"
)

// NewAdapter keeps an engine, its configuration source and the returned store in sync.
//
// The engine is created once, eagerly, from the defaults overlaid with the
// current configuration. The returned store always holds that same engine and
// re-emits it after every synchronization. Synchronization only runs while
// the store has subscribers.
func NewAdapter[T any, E ports.Engine[T]](source Source[T], create func(domain.Options[T]) (E, error), opts ...Option) (store.Readable[E], error) {
	cfg := newConfig(opts)

	configs := source.readable()
	resolved := domain.Overlay(domain.DefaultOptions[T](), store.Get(configs))

	engine, err := create(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	s := &synchronizer[T, E]{
		engine:  engine,
		forward: resolved.OnStateChange,
		local:   store.NewWritable(engine.InitialState(), nil),
		cfg:     cfg,
	}
	s.combined = store.Derived2[domain.State, domain.Options[T]](s.local, configs, store.MakePair[domain.State, domain.Options[T]])

	return store.NewReadable(engine, s.start), nil
}

// synchronizer is the single writer of the engine's options.
type synchronizer[T any, E ports.Engine[T]] struct {
	engine   E
	forward  domain.StateChangeFunc
	local    store.Writable[domain.State]
	combined store.Readable[store.Pair[domain.State, domain.Options[T]]]
	cfg      config
}

func (s *synchronizer[T, E]) start(set func(E), _ func(func(E) E)) store.StopFunc {
	s.cfg.logger.Debug("Adapter activated")
	if s.cfg.hooks.OnActivate != nil {
		s.cfg.hooks.OnActivate(&domain.ActivationEvent{EventBase: domain.NewEventBase(domain.EventActivate, s.cfg.name)})
	}

	unsubscribe := s.combined.Subscribe(func(p store.Pair[domain.State, domain.Options[T]]) {
		s.apply(p.First, p.Second)
		set(s.engine)
	})

	return func() {
		unsubscribe()
		s.cfg.logger.Debug("Adapter deactivated")
		if s.cfg.hooks.OnDeactivate != nil {
			s.cfg.hooks.OnDeactivate(&domain.ActivationEvent{EventBase: domain.NewEventBase(domain.EventDeactivate, s.cfg.name)})
		}
	}
}

// apply pushes one (state, config) emission into the engine.
// State keys present on the live config win over local ones.
func (s *synchronizer[T, E]) apply(state domain.State, live domain.Options[T]) {
	s.engine.SetOptions(func(prev domain.Options[T]) domain.Options[T] {
		next := domain.Overlay(prev, live)
		next.State = domain.MergeState(state, live.State)
		next.OnStateChange = s.handleStateChange
		return next
	})

	s.cfg.logger.Debug("Engine synchronized", "state_keys", len(state), "external_keys", len(live.State))
	if s.cfg.hooks.OnSync != nil {
		s.cfg.hooks.OnSync(&domain.SyncEvent{
			EventBase: domain.NewEventBase(domain.EventSync, s.cfg.name),
			State:     s.engine.State(),
		})
	}
}

// handleStateChange is installed as the engine's OnStateChange. It applies
// u to the local state, then always forwards u to the configured handler.
func (s *synchronizer[T, E]) handleStateChange(u domain.Updater) {
	if u.IsFunc() {
		s.local.Update(u.Func())
	} else {
		s.local.Set(u.Value())
	}

	s.cfg.logger.Debug("Table state changed", "functional", u.IsFunc())
	if s.cfg.hooks.OnStateChange != nil {
		s.cfg.hooks.OnStateChange(&domain.StateChangeEvent{
			EventBase:  domain.NewEventBase(domain.EventStateChange, s.cfg.name),
			Functional: u.IsFunc(),
			State:      store.Get[domain.State](s.local),
		})
	}

	s.forward(u)
}
