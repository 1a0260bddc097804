package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Publisher sends lookup events to one downstream sink.
type Publisher interface {
	ID() string
	Kind() string
	Publish(ctx context.Context, evt Event) error
}

type opener func(ctx context.Context, cfg SinkConfig, log Logger) (Publisher, error)

var openers = map[string]opener{
	KindHTTP:   openWebhook,
	KindSQS:    openQueue,
	KindSNS:    openTopic,
	KindPubSub: openPubSub,
}

// Open connects every enabled sink in cfgs. If one fails, the ones already
// opened are closed again.
func Open(ctx context.Context, cfgs []SinkConfig, log Logger) (*Fanout, error) {
	log = ensureLogger(log)
	if ctx == nil {
		ctx = context.Background()
	}

	var pubs []Publisher
	for _, cfg := range cfgs {
		if !cfg.IsEnabled() {
			log.DebugObj("publisher disabled", "publisher_id", cfg.ID)
			continue
		}
		open, ok := openers[cfg.Kind]
		if !ok {
			return nil, errors.Join(
				fmt.Errorf("publisher %q: unknown type %q", cfg.ID, cfg.Kind),
				NewFanout(pubs).Close(),
			)
		}
		pub, err := open(ctx, cfg, log)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("open publisher %q: %w", cfg.ID, err), NewFanout(pubs).Close())
		}
		pubs = append(pubs, pub)
	}
	return NewFanout(pubs), nil
}
