package nav

import "sync"

// Listener is called with the new active section id.
type Listener func(active string)

// Tracker follows scroll events and keeps the active section current.
// Listeners are only told about changes.
type Tracker struct {
	mu        sync.Mutex
	sections  []Offset
	threshold int
	active    string
	nextID    int
	listeners map[int]Listener
}

func NewTracker(sections []Offset, threshold int) *Tracker {
	return &Tracker{
		sections:  append([]Offset(nil), sections...),
		threshold: threshold,
		active:    ActiveSection(sections, 0, threshold),
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn and returns the func that removes it again.
// Calling the returned func more than once is harmless.
func (t *Tracker) Subscribe(fn Listener) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// Scroll recomputes the active section for scrollY. Every event is
// evaluated; there is no debouncing.
func (t *Tracker) Scroll(scrollY int) string {
	t.mu.Lock()
	next := ActiveSection(t.sections, scrollY, t.threshold)
	if next == t.active {
		t.mu.Unlock()
		return next
	}
	t.active = next

	listeners := make([]Listener, 0, len(t.listeners))
	for _, fn := range t.listeners {
		listeners = append(listeners, fn)
	}
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
