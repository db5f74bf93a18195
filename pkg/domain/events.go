package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSync        EventType = "sync"
	EventStateChange EventType = "state_change"
	EventActivate    EventType = "activate"
	EventDeactivate  EventType = "deactivate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Table     string    `json:"table"`
}

// NewEventBase stamps an event for table.
func NewEventBase(typ EventType, table string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: typ, Table: table}
}

// SyncEvent is emitted after the adapter pushed options into the engine.
type SyncEvent struct {
	EventBase
	State State `json:"state"`
}

// StateChangeEvent is emitted when the engine reports a state change.
type StateChangeEvent struct {
	EventBase
	Functional bool  `json:"functional"`
	State      State `json:"state"`
}

// ActivationEvent marks the first subscriber arriving or the last one leaving.
type ActivationEvent struct {
	EventBase
}

// LifecycleHooks defines callbacks for adapter observability.
// Every field is optional.
type LifecycleHooks struct {
	OnSync        func(*SyncEvent)
	OnStateChange func(*StateChangeEvent)
	OnActivate    func(*ActivationEvent)
	OnDeactivate  func(*ActivationEvent)
}

// ChainHooks runs every set hook of each element, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSync: func(e *SyncEvent) {
			for _, h := range hooks {
				if h.OnSync != nil {
					h.OnSync(e)
				}
			}
		},
		OnStateChange: func(e *StateChangeEvent) {
			for _, h := range hooks {
				if h.OnStateChange != nil {
					h.OnStateChange(e)
				}
			}
		},
		OnActivate: func(e *ActivationEvent) {
			for _, h := range hooks {
				if h.OnActivate != nil {
					h.OnActivate(e)
				}
			}
		},
		OnDeactivate: func(e *ActivationEvent) {
			for _, h := range hooks {
				if h.OnDeactivate != nil {
					h.OnDeactivate(e)
				}
			}
		},
	}
}
