package editor

// ChangeKind classifies store notifications.
type ChangeKind int

// Change kinds.
const (
	ChangeTree ChangeKind = iota
	ChangeSelection
	ChangeView
	ChangeSaved
	ChangeLoaded
)

// String returns the kind's name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeTree:
		return "tree"
	case ChangeSelection:
		return "selection"
	case ChangeView:
		return "view"
	case ChangeSaved:
		return "saved"
	case ChangeLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Change describes one state change of a store.
type Change struct {
	Kind        ChangeKind
	Description string
	Revision    uint64
}

// Observer is notified after every state change. Observers run on the
// goroutine that made the change, after the store's lock is released, so
// they may call back into the store.
type Observer func(Change)

// Subscribe registers an observer and returns a function removing it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// notifierLocked captures the current observers and returns a function
// delivering c to them.
func (s *Store) notifierLocked(c Change) func() {
	if len(s.observers) == 0 {
		return func() {}
	}
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(c)
		}
	}
}
