package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubTopic publishes events to a Google Cloud Pub/Sub topic and waits for
// the server ack.
type pubsubTopic struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

func openPubSub(ctx context.Context, cfg SinkConfig, log Logger) (Publisher, error) {
	var opts []option.ClientOption
	if cfg.Credentials.File != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials.File))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := pubsub.NewClient(ctx, cfg.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	return &pubsubTopic{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.Target),
		log:    ensureLogger(log),
	}, nil
}

func (p *pubsubTopic) ID() string   { return p.id }
func (p *pubsubTopic) Kind() string { return KindPubSub }

func (p *pubsubTopic) Publish(ctx context.Context, evt Event) error {
	msg, err := evt.message()
	if err != nil {
		return err
	}
	serverID, err := p.topic.Publish(ctx, &pubsub.Message{
		Data:       msg.body,
		Attributes: msg.attributes,
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("pubsub publish: %w", err)
	}
	p.log.DebugObj("lookup event published", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": p.id,
		"message_id":   serverID,
	})
	return nil
}

// Close flushes pending messages and closes the client.
func (p *pubsubTopic) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
