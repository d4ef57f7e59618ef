package identity

import (
	"sync"

	"verva-api/domain"
)

// Notifier broadcasts session changes. Subscribers receive the current user
// once immediately on subscribe and again on every change; a nil user means
// no session is present. The composition root owns the subscribe/unsubscribe
// lifecycle.
type Notifier struct {
	mu      sync.Mutex
	current *domain.User
	subs    map[int]func(*domain.User)
	nextID  int
}

// NewNotifier creates a Notifier with no active session.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(*domain.User))}
}

// Subscribe registers cb and invokes it immediately with the current session.
// The returned handle deregisters the callback; calling it more than once is
// harmless.
func (n *Notifier) Subscribe(cb func(*domain.User)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = cb
	current := n.current
	n.mu.Unlock()

	cb(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Set replaces the current session and notifies every subscriber.
func (n *Notifier) Set(user *domain.User) {
	n.mu.Lock()
	n.current = user
	cbs := make([]func(*domain.User), 0, len(n.subs))
	for _, cb := range n.subs {
		cbs = append(cbs, cb)
	}
	n.mu.Unlock()

	for _, cb := range cbs {
		cb(user)
	}
}

// Current returns the active session, or nil when signed out.
func (n *Notifier) Current() *domain.User {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
