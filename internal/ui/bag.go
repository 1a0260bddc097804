package ui

import "sync"

// Bag collects cancel funcs for subscriptions owned by one screen.
type Bag struct {
	mu       sync.Mutex
	cancels  []func()
	released bool
}

// Store adds cancel to the bag. After Cancel it runs cancel immediately.
func (b *Bag) Store(cancel func()) {
	if cancel == nil {
		return
	}
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		cancel()
		return
	}
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()
}

// Cancel runs every stored cancel func once, in insertion order.
func (b *Bag) Cancel() {
	b.mu.Lock()
	cancels := b.cancels
	b.cancels = nil
	b.released = true
	b.mu.Unlock()

	for _, c := range cancels {
		c()
	}
}

// Len returns the number of live subscriptions.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cancels)
}
