package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// queue sends each event as one SQS message.
type queue struct {
	id     string
	url    string
	client sqsAPI
	log    Logger
}

// topic publishes each event to an SNS topic.
type topic struct {
	id     string
	arn    string
	client snsAPI
	log    Logger
}

// awsConfig resolves region and credentials. Static keys win over the default chain.
func awsConfig(ctx context.Context, cfg SinkConfig) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if creds := cfg.Credentials; creds.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	out, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return out, nil
}

func openQueue(ctx context.Context, cfg SinkConfig, log Logger) (Publisher, error) {
	awsCfg, err := awsConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &queue{id: cfg.ID, url: cfg.Target, client: client, log: ensureLogger(log)}, nil
}

func openTopic(ctx context.Context, cfg SinkConfig, log Logger) (Publisher, error) {
	awsCfg, err := awsConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &topic{id: cfg.ID, arn: cfg.Target, client: client, log: ensureLogger(log)}, nil
}

func (q *queue) ID() string   { return q.id }
func (q *queue) Kind() string { return KindSQS }

func (q *queue) Publish(ctx context.Context, evt Event) error {
	msg, err := evt.message()
	if err != nil {
		return err
	}
	attrs := make(map[string]sqstypes.MessageAttributeValue, len(msg.attributes))
	for k, v := range msg.attributes {
		attrs[k] = sqstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(q.url),
		MessageBody:       aws.String(string(msg.body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("sqs send: %w", err)
	}
	q.log.DebugObj("lookup event queued", "publisher_sqs_delivery", map[string]any{
		"publisher_id": q.id,
		"app_id":       evt.AppID,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}

func (t *topic) ID() string   { return t.id }
func (t *topic) Kind() string { return KindSNS }

func (t *topic) Publish(ctx context.Context, evt Event) error {
	msg, err := evt.message()
	if err != nil {
		return err
	}
	attrs := make(map[string]snstypes.MessageAttributeValue, len(msg.attributes))
	for k, v := range msg.attributes {
		attrs[k] = snstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}

	out, err := t.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(t.arn),
		Message:           aws.String(string(msg.body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	t.log.DebugObj("lookup event announced", "publisher_sns_delivery", map[string]any{
		"publisher_id": t.id,
		"app_id":       evt.AppID,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
