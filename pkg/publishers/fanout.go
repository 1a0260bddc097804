package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Fanout delivers each event to every open sink concurrently.
type Fanout struct {
	pubs []Publisher
}

// NewFanout wraps pubs, skipping nils.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.pubs = append(f.pubs, p)
		}
	}
	return f
}

// Publish returns how many sinks accepted evt. Failures are joined in sink order.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	errs := make([]error, len(f.pubs))
	var wg sync.WaitGroup
	for i, p := range f.pubs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Publish(ctx, evt); err != nil {
				errs[i] = fmt.Errorf("%s publisher %q: %w", p.Kind(), p.ID(), err)
			}
		}()
	}
	wg.Wait()

	delivered := 0
	for _, err := range errs {
		if err == nil {
			delivered++
		}
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of open sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.pubs)
}

// IDs lists the open sinks as "kind:id".
func (f *Fanout) IDs() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.pubs))
	for _, p := range f.pubs {
		out = append(out, p.Kind()+":"+p.ID())
	}
	return out
}

// Close releases sinks holding connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.pubs {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close publisher %q: %w", p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
