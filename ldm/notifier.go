package ldm

import (
	"sync"
	"sync/atomic"
)

// Notifier publishes a version number that grows on every change to a store.
// Subscribers receive the latest version on a channel of capacity one; a
// slow subscriber misses intermediate versions but never the last one.
type Notifier struct {
	version atomic.Uint64

	mu   sync.Mutex
	subs map[chan uint64]struct{}
}

// NewNotifier returns a Notifier at version zero.
func NewNotifier() *Notifier {
	return &Notifier{subs: map[chan uint64]struct{}{}}
}

// Version returns the current version.
func (n *Notifier) Version() uint64 { return n.version.Load() }

// Bump advances the version and wakes every subscriber.
func (n *Notifier) Bump() uint64 {
	n.mu.Lock()
	v := n.version.Add(1)
	for ch := range n.subs {
		select {
		case ch <- v:
		default:
			// replace the pending value with the newest one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	n.mu.Unlock()
	return v
}

// Subscribe returns a channel receiving versions and a function that
// unsubscribes and closes it.
func (n *Notifier) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, ch)
			n.mu.Unlock()
			close(ch)
		})
	}
}
