package state

import "sync"

// Listener observes a committed transition
type Listener func(prev, next AppState)

// Store owns one session's AppState. Dispatch is safe to call from a
// Listener: the action is queued and applied once the current round of
// notifications finishes, so transitions never interleave.
type Store struct {
	mu          sync.Mutex
	state       AppState
	listeners   map[int]Listener
	order       []int
	nextID      int
	queue       []Action
	dispatching bool
}

// NewStore creates a store holding initial
func NewStore(initial AppState) *Store {
	return &Store{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
	}
}

// State returns a copy of the current state
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch reduces a into the state and notifies listeners in subscription order
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.queue = append(s.queue, a)
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]

		old := s.state
		updated, ok := Reduce(old, next)
		if !ok {
			continue
		}
		s.state = updated

		listeners := make([]Listener, 0, len(s.order))
		for _, id := range s.order {
			listeners = append(listeners, s.listeners[id])
		}

		s.mu.Unlock()
		for _, fn := range listeners {
			fn(old.Clone(), updated.Clone())
		}
		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}

// Subscribe registers fn for every committed transition
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
