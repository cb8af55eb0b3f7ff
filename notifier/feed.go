package notifier

import (
	"sync"
)

// Feed fans full list snapshots out to any number of consumers. A consumer
// that falls behind only ever misses intermediate snapshots, never the
// latest one.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[chan []T]struct{}
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[chan []T]struct{})}
}

func (f *Feed[T]) Subscribe() chan []T {
	ch := make(chan []T, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[ch] = struct{}{}
	return ch
}

func (f *Feed[T]) Unsubscribe(ch chan []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, ch)
}

// Publish replaces any undelivered snapshot with the new one.
func (f *Feed[T]) Publish(items []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- items:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- items
		}
	}
}
