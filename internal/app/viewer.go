package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/samvad-hq/itunes-screenshots/internal/config"
	"github.com/samvad-hq/itunes-screenshots/internal/logger"
	"github.com/samvad-hq/itunes-screenshots/internal/screenshot"
	"github.com/samvad-hq/itunes-screenshots/internal/ui"
	"github.com/samvad-hq/itunes-screenshots/pkg/httpclient"
	"github.com/samvad-hq/itunes-screenshots/pkg/itunes"
	"github.com/samvad-hq/itunes-screenshots/pkg/publishers"
)

// Viewer represents the screenshot viewer runtime. It performs the app lookup,
// announces it to the configured publishers and hosts the screenshot screen
// until it is dismissed.
type Viewer struct {
	cfg     *config.Config
	client  httpclient.Client
	loader  screenshot.ImageLoader
	lookup  itunes.AppLookup
	fanout  *publishers.Fanout
	log     logger.Logger
	in      io.Reader
	out     io.Writer
	offline bool
}

// ViewerOption customises a Viewer.
type ViewerOption func(*Viewer)

// WithInput sets the stream whose lines count as confirm taps. Defaults to stdin.
func WithInput(r io.Reader) ViewerOption {
	return func(v *Viewer) { v.in = r }
}

// WithOutput sets where the text grid is rendered. Defaults to stdout.
func WithOutput(w io.Writer) ViewerOption {
	return func(v *Viewer) { v.out = w }
}

// WithHTTPClient replaces the transport used for the lookup and image loads.
func WithHTTPClient(c httpclient.Client) ViewerOption {
	return func(v *Viewer) { v.client = c }
}

// NewViewer builds a viewer runtime from config.
func NewViewer(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...ViewerOption) (*Viewer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.AppID == "" {
		return nil, fmt.Errorf("app_id is required")
	}

	v := &Viewer{cfg: cfg, log: log, in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	if v.client == nil {
		if cfg.FixtureFile != "" {
			fixture, err := httpclient.LoadFixture(cfg.FixtureFile)
			if err != nil {
				return nil, fmt.Errorf("load fixture: %w", err)
			}
			v.client = fixture
			v.offline = true
			log.InfoObj("fixture transport enabled", "fixture_file", cfg.FixtureFile)
		} else {
			v.client = itunes.DefaultHTTPClient(cfg.RequestTimeout, cfg.UserAgent)
		}
	}
	if !v.offline {
		v.loader = screenshot.NewHTTPImageLoader(v.client)
	}

	v.lookup = itunes.NewAppLookup(cfg.AppID,
		itunes.WithBaseURL(cfg.ITunesBaseURL),
		itunes.WithClient(v.client),
	)
	if u, ok := v.lookup.URL(); ok {
		log.InfoObj("lookup prepared", "lookup_meta", map[string]any{
			"app_id": cfg.AppID,
			"url":    u,
		})
	} else {
		log.WarnObj("lookup url could not be built", "lookup_meta", map[string]any{
			"app_id":   cfg.AppID,
			"base_url": cfg.ITunesBaseURL,
		})
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}
	v.fanout = fanout

	return v, nil
}

// buildFanout opens the sinks declared in the optional publishers file. An empty
// path disables publishing.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return publishers.NewFanout(nil), nil
	}

	sinks, err := publishers.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	fanout, err := publishers.Open(ctx, sinks, log)
	if err != nil {
		return nil, fmt.Errorf("open publishers: %w", err)
	}
	log.InfoObj("publishers opened", "publishers_meta", map[string]any{
		"declared": len(sinks),
		"open":     fanout.IDs(),
	})
	return fanout, nil
}

// Run looks the app up and shows its screenshots until the screen is dismissed
// or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	if v == nil || v.client == nil {
		return fmt.Errorf("viewer is not initialized")
	}
	defer v.closeFanout()

	dto, err := v.lookup.Fetch(ctx)
	if err != nil {
		v.log.ErrorObj("lookup failed", "lookup_error", map[string]any{
			"app_id": v.lookup.AppID(),
			"error":  err.Error(),
		})
		return fmt.Errorf("lookup app %s: %w", v.lookup.AppID(), err)
	}
	v.log.InfoObj("lookup completed", "lookup_meta", map[string]any{
		"app_id":       v.lookup.AppID(),
		"result_count": dto.ResultCount,
		"screenshots":  len(dto.ScreenshotURLs()),
	})
	v.publish(ctx, dto)

	return v.show(ctx, dto)
}

func (v *Viewer) publish(ctx context.Context, dto itunes.SearchResultDTO) {
	if v.fanout.Size() == 0 {
		return
	}
	delivered, err := v.fanout.Publish(ctx, publishers.NewEvent(v.lookup.AppID(), dto))
	if err != nil {
		v.log.WarnObj("lookup event not delivered to every publisher", "publish_meta", map[string]any{
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	v.log.DebugObj("lookup event published", "publish_meta", map[string]any{
		"delivered": delivered,
	})
}

// show hosts the screenshot screen on a main queue driven by the calling goroutine.
func (v *Viewer) show(ctx context.Context, dto itunes.SearchResultDTO) error {
	queue := ui.NewMainQueue(0)

	var ctrl *screenshot.Controller
	dismiss := func() {
		queue.Post(func() {
			ctrl.Close()
			queue.Stop()
			v.log.InfoObj("screenshot screen dismissed", "app_id", v.lookup.AppID())
		})
	}

	vm := screenshot.NewViewModelFromLookup(dto, v.cfg.InitialIndex, screenshot.NavigatorFunc(dismiss))
	grid := newShownGrid(v.grid(queue))
	ctrl = screenshot.NewController(vm, grid, queue, v.log)
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	defer ctrl.Close()

	go v.readTaps(ctx, grid.shown, ctrl, dismiss)

	if err := queue.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if g, ok := grid.Grid.(*screenshot.HTMLGrid); ok && g.Err() != nil {
		return fmt.Errorf("render html: %w", g.Err())
	}
	return nil
}

func (v *Viewer) grid(queue *ui.MainQueue) screenshot.Grid {
	if v.cfg.RenderFormat == config.RenderHTML {
		return screenshot.NewHTMLGrid(screenshot.FileWriter(v.cfg.HTMLOutput))
	}
	return screenshot.NewTextGrid(v.out, v.loader, queue)
}

// readTaps turns every input line into a confirm tap once the first page is on
// screen. End of input dismisses the screen.
func (v *Viewer) readTaps(ctx context.Context, shown <-chan struct{}, ctrl *screenshot.Controller, dismiss func()) {
	select {
	case <-ctx.Done():
		return
	case <-shown:
	}

	if v.in == nil {
		return
	}
	scanner := bufio.NewScanner(v.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		ctrl.ConfirmTapped()
	}
	dismiss()
}

func (v *Viewer) closeFanout() {
	if err := v.fanout.Close(); err != nil {
		v.log.ErrorObj("publisher close failed", "error", err)
	}
}

// shownGrid closes shown after the first reload.
type shownGrid struct {
	screenshot.Grid
	once  sync.Once
	shown chan struct{}
}

func newShownGrid(g screenshot.Grid) *shownGrid {
	return &shownGrid{Grid: g, shown: make(chan struct{})}
}

func (g *shownGrid) Reload(urls []string) {
	g.Grid.Reload(urls)
	g.once.Do(func() { close(g.shown) })
}
