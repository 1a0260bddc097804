package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/itunes-screenshots/pkg/httpclient"
)

const maxErrorSnippet = 256

// webhook POSTs the event JSON to a URL over the shared transport.
type webhook struct {
	id      string
	url     string
	headers map[string]string
	client  httpclient.Client
	log     Logger
}

func openWebhook(_ context.Context, cfg SinkConfig, log Logger) (Publisher, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultWebhookTimeoutSeconds * time.Second
	}
	return &webhook{
		id:      cfg.ID,
		url:     cfg.Target,
		headers: cfg.Headers,
		client:  httpclient.NewRestyClient(timeout, ""),
		log:     ensureLogger(log),
	}, nil
}

func (w *webhook) ID() string   { return w.id }
func (w *webhook) Kind() string { return KindHTTP }

func (w *webhook) Publish(ctx context.Context, evt Event) error {
	msg, err := evt.message()
	if err != nil {
		return err
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range w.headers {
		headers[k] = v
	}
	for k, v := range msg.attributes {
		headers["X-Lookup-"+strings.ReplaceAll(k, "_", "-")] = v
	}

	resp, err := w.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     w.url,
		Headers: headers,
		Body:    msg.body,
	})
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	if !httpclient.IsSuccess(resp.StatusCode()) {
		w.log.WarnObj("webhook rejected event", "publisher_http_error", map[string]any{
			"publisher_id": w.id,
			"status":       resp.StatusCode(),
		})
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}
	return nil
}

func snippet(body []byte) string {
	if len(body) > maxErrorSnippet {
		body = body[:maxErrorSnippet]
	}
	return strings.TrimSpace(string(body))
}
