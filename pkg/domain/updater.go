package domain

// Updater is what an engine hands to its state-change callback: either a full
// replacement State or a function of the previous State. Exactly one of the
// two is set, decided by the constructor used.
type Updater struct {
	fn    func(State) State
	value State
}

// Replace builds an Updater that replaces the state with value.
func Replace(value State) Updater {
	return Updater{value: value}
}

// Apply builds an Updater that derives the next state from the previous one.
func Apply(fn func(prev State) State) Updater {
	return Updater{fn: fn}
}

// IsFunc reports whether u was built with Apply.
func (u Updater) IsFunc() bool {
	return u.fn != nil
}

// Func returns the updater function, nil for replacements.
func (u Updater) Func() func(State) State {
	return u.fn
}

// Value returns the replacement state, nil for functional updaters.
func (u Updater) Value() State {
	return u.value
}

// Resolve computes the state that results from applying u to prev.
func (u Updater) Resolve(prev State) State {
	if u.fn != nil {
		return u.fn(prev)
	}
	return u.value
}

// StateChangeFunc receives every state change an engine wants to make.
type StateChangeFunc func(Updater)

// NoopStateChange ignores the update.
func NoopStateChange(Updater) {}
