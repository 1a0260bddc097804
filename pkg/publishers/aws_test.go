package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-2")}, nil
}

func TestQueuePublishSendsEventWithAttributes(t *testing.T) {
	client := &fakeSQS{}
	q := &queue{id: "q", url: "https://sqs.example.com/123/lookups", client: client, log: ensureLogger(nil)}

	if err := q.Publish(context.Background(), Event{AppID: "872469884", ScreenshotCount: 3}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://sqs.example.com/123/lookups" {
		t.Fatalf("QueueUrl = %s", got)
	}
	if attr := client.input.MessageAttributes["screenshot_count"]; aws.ToString(attr.StringValue) != "3" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("screenshot_count attribute = %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"app_id":"872469884"`) {
		t.Fatalf("MessageBody missing app_id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestQueuePublishWrapsClientError(t *testing.T) {
	boom := errors.New("throttled")
	q := &queue{id: "q", url: "u", client: &fakeSQS{err: boom}, log: ensureLogger(nil)}
	if err := q.Publish(context.Background(), Event{AppID: "1"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestTopicPublishSendsEventWithAttributes(t *testing.T) {
	client := &fakeSNS{}
	tp := &topic{id: "t", arn: "arn:aws:sns:us-east-1:123:lookups", client: client, log: ensureLogger(nil)}

	if err := tp.Publish(context.Background(), Event{AppID: "872469884"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:us-east-1:123:lookups" {
		t.Fatalf("TopicArn = %s", got)
	}
	if attr := client.input.MessageAttributes["app_id"]; aws.ToString(attr.StringValue) != "872469884" {
		t.Fatalf("app_id attribute = %#v", attr)
	}

	tp.client = &fakeSNS{err: errors.New("denied")}
	if err := tp.Publish(context.Background(), Event{AppID: "1"}); err == nil {
		t.Fatalf("expected error from client")
	}
}

func TestQueueRejectsEventWithoutAppID(t *testing.T) {
	client := &fakeSQS{}
	q := &queue{id: "q", url: "u", client: client, log: ensureLogger(nil)}
	if err := q.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error")
	}
	if client.input != nil {
		t.Fatalf("client must not be called for an invalid event")
	}
}
