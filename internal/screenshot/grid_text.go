package screenshot

import (
	"context"
	"fmt"
	"io"

	"github.com/samvad-hq/itunes-screenshots/internal/ui"
)

// TextGrid renders the current page to a terminal. The visible image is resolved
// off the main queue and its details are posted back when ready.
type TextGrid struct {
	ctx    context.Context
	out    io.Writer
	loader ImageLoader
	queue  *ui.MainQueue

	urls    []string
	current int
}

// NewTextGrid builds a grid writing to out. loader may be nil.
func NewTextGrid(out io.Writer, loader ImageLoader, queue *ui.MainQueue) *TextGrid {
	return &TextGrid{ctx: context.Background(), out: out, loader: loader, queue: queue}
}

// Bind scopes image loads to ctx.
func (g *TextGrid) Bind(ctx context.Context) {
	if ctx != nil {
		g.ctx = ctx
	}
}

// Reload replaces the listed screenshots and resets the current page.
func (g *TextGrid) Reload(urls []string) {
	g.urls = append(g.urls[:0], urls...)
	g.current = 0
	if len(g.urls) == 0 {
		fmt.Fprintln(g.out, "no screenshots available")
	}
}

// ScrollTo prints page index and starts resolving its image.
func (g *TextGrid) ScrollTo(index int, _ bool) {
	if index < 0 || index >= len(g.urls) {
		return
	}
	g.current = index
	url := g.urls[index]

	fmt.Fprintf(g.out, "screenshot %d/%d\n", index+1, len(g.urls))
	for i, u := range g.urls {
		marker := " "
		if i == index {
			marker = ">"
		}
		fmt.Fprintf(g.out, "%s %d. %s\n", marker, i+1, u)
	}

	if g.loader == nil || g.queue == nil {
		return
	}
	go g.resolve(g.ctx, index, url)
}

func (g *TextGrid) resolve(ctx context.Context, index int, url string) {
	img, err := g.loader.Load(ctx, url)
	if ctx.Err() != nil {
		return
	}
	g.queue.Post(func() {
		if ctx.Err() != nil || g.current != index {
			return
		}
		if err != nil {
			fmt.Fprintf(g.out, "  image unavailable: %v\n", err)
			return
		}
		fmt.Fprintf(g.out, "  %s, %d bytes\n", img.ContentType, img.Size)
	})
}

// Current returns the page index last scrolled to.
func (g *TextGrid) Current() int { return g.current }
