package screenshot

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samvad-hq/itunes-screenshots/internal/logger"
	"github.com/samvad-hq/itunes-screenshots/internal/ui"
)

// Grid is a horizontally paged, single-item-per-page cell grid. It is only
// paged programmatically through ScrollTo. Bind hands the grid the lifetime of
// the screen: work the grid starts on its own must stop once ctx is done.
type Grid interface {
	Bind(ctx context.Context)
	Reload(urls []string)
	ScrollTo(index int, animated bool)
}

// Controller binds a ViewModel to a Grid. Grid and url state are touched only
// from funcs running on the main queue.
type Controller struct {
	vm      *ViewModel
	grid    Grid
	queue   *ui.MainQueue
	log     logger.Logger
	confirm chan struct{}
	bag     ui.Bag
	loaded  atomic.Bool

	urls []string
}

// NewController builds a controller for vm rendering into grid.
func NewController(vm *ViewModel, grid Grid, queue *ui.MainQueue, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Controller{
		vm:      vm,
		grid:    grid,
		queue:   queue,
		log:     log,
		confirm: make(chan struct{}, 1),
	}
}

// Load binds the view model streams. Subscriptions live until Close. A
// controller loads once.
func (c *Controller) Load(ctx context.Context) error {
	if c == nil || c.vm == nil || c.grid == nil || c.queue == nil {
		return fmt.Errorf("screenshot controller is not initialized")
	}
	if !c.loaded.CompareAndSwap(false, true) {
		return fmt.Errorf("screenshot controller already loaded")
	}

	ctx, cancel := context.WithCancel(ctx)
	c.bag.Store(cancel)
	c.grid.Bind(ctx)

	out := c.vm.Transform(ctx, Input{ConfirmTapped: c.confirm})
	go c.deliver(ctx, out.Page)
	return nil
}

// deliver re-dispatches every page onto the main queue.
func (c *Controller) deliver(ctx context.Context, pages <-chan Page) {
	for {
		select {
		case <-ctx.Done():
			return
		case page, ok := <-pages:
			if !ok {
				return
			}
			c.queue.Post(func() {
				if ctx.Err() != nil {
					return
				}
				c.apply(page)
			})
		}
	}
}

func (c *Controller) apply(page Page) {
	c.urls = page.URLs
	c.grid.Reload(page.URLs)
	if len(page.URLs) > 0 {
		c.grid.ScrollTo(page.Index, false)
	}
	c.log.InfoObj("screenshots displayed", "screenshot_page", map[string]any{
		"count": len(page.URLs),
		"index": page.Index,
	})
}

// ConfirmTapped signals the confirm control. Extra taps while one is pending are dropped.
func (c *Controller) ConfirmTapped() {
	select {
	case c.confirm <- struct{}{}:
	default:
	}
}

// Close releases all subscriptions and the grid's in-flight work. Pages still
// queued are discarded.
func (c *Controller) Close() {
	c.bag.Cancel()
}

// NumberOfItems returns the number of displayed screenshots. Main queue only.
func (c *Controller) NumberOfItems() int { return len(c.urls) }

// ItemAt returns the screenshot URL for item i. Main queue only.
func (c *Controller) ItemAt(i int) (string, bool) {
	if i < 0 || i >= len(c.urls) {
		return "", false
	}
	return c.urls[i], true
}
