package publishers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/samvad-hq/itunes-screenshots/pkg/itunes"
)

type stubPublisher struct {
	id     string
	err    error
	calls  atomic.Int32
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Kind() string { return "stub" }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls.Add(1)
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishCountsDeliveries(t *testing.T) {
	ok := &stubPublisher{id: "ok"}
	bad := &stubPublisher{id: "bad", err: errors.New("refused")}
	fanout := NewFanout([]Publisher{ok, nil, bad})
	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be skipped, size=%d", fanout.Size())
	}

	delivered, err := fanout.Publish(context.Background(), Event{AppID: "1"})
	if delivered != 1 {
		t.Fatalf("delivered = %d", delivered)
	}
	if err == nil || ok.calls.Load() != 1 || bad.calls.Load() != 1 {
		t.Fatalf("expected every sink attempted and the failure reported, err=%v", err)
	}
	if ids := fanout.IDs(); len(ids) != 2 || ids[0] != "stub:ok" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestFanoutCloseAndNil(t *testing.T) {
	stub := &stubPublisher{id: "c"}
	if err := NewFanout([]Publisher{stub}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !stub.closed {
		t.Fatalf("expected publisher to be closed")
	}

	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout publish = %d, %v", n, err)
	}
	if err := nilFanout.Close(); err != nil {
		t.Fatalf("nil fanout close: %v", err)
	}
}

func TestOpenSkipsDisabledAndRejectsUnknown(t *testing.T) {
	off := false
	fanout, err := Open(context.Background(), []SinkConfig{
		{ID: "hook", Kind: KindHTTP, Target: "https://example.com"},
		{ID: "muted", Kind: KindHTTP, Target: "https://example.com", Enabled: &off},
	}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ids := fanout.IDs(); len(ids) != 1 || ids[0] != "http:hook" {
		t.Fatalf("unexpected sinks %v", ids)
	}

	if _, err := Open(context.Background(), []SinkConfig{{ID: "x", Kind: "kafka"}}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestNewEventFromLookup(t *testing.T) {
	dto := itunes.SearchResultDTO{
		ResultCount: 1,
		Results: []itunes.AppDTO{{
			TrackName:      "Sample Market",
			SellerName:     "Seller",
			ScreenshotURLs: []string{"a", "b"},
		}},
	}
	evt := NewEvent("872469884", dto)
	if evt.AppID != "872469884" || evt.TrackName != "Sample Market" || evt.SellerName != "Seller" {
		t.Fatalf("unexpected event %#v", evt)
	}
	if evt.ScreenshotCount != 2 || evt.LookedUpAt.IsZero() {
		t.Fatalf("unexpected event %#v", evt)
	}

	msg, err := evt.message()
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if msg.attributes["app_id"] != "872469884" || msg.attributes["screenshot_count"] != "2" {
		t.Fatalf("unexpected attributes %v", msg.attributes)
	}
	if _, err := (Event{}).message(); err == nil {
		t.Fatalf("expected error for event without app id")
	}
}
