package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubPublishesThroughOpen(t *testing.T) {
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "lookups"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	fanout, err := Open(ctx, []SinkConfig{{
		ID:      "ps",
		Kind:    KindPubSub,
		Project: "test-project",
		Target:  "lookups",
	}}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer fanout.Close()

	if n, err := fanout.Publish(ctx, Event{AppID: "872469884", ScreenshotCount: 2}); err != nil || n != 1 {
		t.Fatalf("Publish = %d, %v", n, err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["app_id"] != "872469884" || msgs[0].Attributes["screenshot_count"] != "2" {
		t.Fatalf("unexpected attributes %v", msgs[0].Attributes)
	}
	var evt Event
	if err := json.Unmarshal(msgs[0].Data, &evt); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if evt.ScreenshotCount != 2 {
		t.Fatalf("screenshot_count = %d", evt.ScreenshotCount)
	}
}
