// Package observe provides observable values with explicit subscriptions.
package observe

import (
	"sync"
	"sync/atomic"
)

// Value holds a value of type T and notifies subscribers when it changes.
//
// Set stores the new value before any subscriber runs, and subscribers are
// called in subscription order. A Set issued while subscribers are being
// notified (from a subscriber or another goroutine) is queued and delivered
// after the current notification completes, so every subscriber observes
// changes in the order they were written.
type Value[T comparable] struct {
	mu        sync.Mutex
	v         T
	subs      []*subscriber[T]
	pending   []T
	notifying bool
}

type subscriber[T comparable] struct {
	fn      func(T)
	removed atomic.Bool
}

// NewValue returns a Value holding v.
func NewValue[T comparable](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

// Set stores v and notifies subscribers. Setting the current value is a
// no-op.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	if o.v == v {
		o.mu.Unlock()
		return
	}
	o.v = v
	o.pending = append(o.pending, v)
	if o.notifying {
		o.mu.Unlock()
		return
	}
	o.notifying = true

	for len(o.pending) > 0 {
		next := o.pending[0]
		o.pending = o.pending[1:]
		subs := make([]*subscriber[T], len(o.subs))
		copy(subs, o.subs)
		o.mu.Unlock()

		for _, s := range subs {
			if !s.removed.Load() {
				s.fn(next)
			}
		}

		o.mu.Lock()
	}
	o.pending = nil
	o.notifying = false
	o.mu.Unlock()
}

// Subscribe registers fn to be called with every new value. The returned
// function removes the subscription; it is safe to call more than once,
// including from within fn.
func (o *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s := &subscriber[T]{fn: fn}
	o.mu.Lock()
	o.subs = append(o.subs, s)
	o.mu.Unlock()

	return func() {
		if s.removed.Swap(true) {
			return
		}
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, sub := range o.subs {
			if sub == s {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (o *Value[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}
