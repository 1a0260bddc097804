package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadConfigNormalizesSinks(t *testing.T) {
	path := writeConfig(t, "publishers.yaml", `
publishers:
  - id: " hook "
    type: HTTP
    target: " https://hooks.example.com/lookups "
    headers:
      " Authorization ": " Bearer x "
  - id: queue
    type: sqs
    enabled: false
    target: https://sqs.us-east-1.amazonaws.com/123/lookups
    region: us-east-1
    endpoint: http://localhost:4566
    credentials:
      access_key_id: AKIA
      secret_access_key: secret
  - id: topic
    type: sns
    target: arn:aws:sns:us-east-1:123:lookups
    region: us-east-1
`)

	sinks, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(sinks) != 3 {
		t.Fatalf("expected 3 sinks, got %d", len(sinks))
	}

	hook := sinks[0]
	if hook.ID != "hook" || hook.Kind != KindHTTP || hook.Target != "https://hooks.example.com/lookups" {
		t.Fatalf("webhook not normalized: %#v", hook)
	}
	if hook.Headers["Authorization"] != "Bearer x" || hook.TimeoutSeconds != defaultWebhookTimeoutSeconds {
		t.Fatalf("webhook defaults not applied: %#v", hook)
	}
	if !hook.IsEnabled() || sinks[1].IsEnabled() {
		t.Fatalf("unexpected enabled flags")
	}
	if sinks[1].Credentials.AccessKeyID != "AKIA" || sinks[1].Endpoint != "http://localhost:4566" {
		t.Fatalf("queue credentials not decoded: %#v", sinks[1])
	}
}

func TestLoadConfigAcceptsJSON(t *testing.T) {
	path := writeConfig(t, "publishers.json",
		`{"publishers":[{"id":"ps","type":"gcp_pubsub","project":"p","target":"lookups"}]}`)
	sinks, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Kind != KindPubSub || sinks[0].Target != "lookups" {
		t.Fatalf("unexpected sinks %#v", sinks)
	}
}

func TestLoadConfigRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"empty": ``,
		"unknown key": `
publishers:
  - id: hook
    type: http
    target: https://a
    method: PUT
`,
		"duplicate": `
publishers:
  - id: dup
    type: http
    target: https://a
  - id: dup
    type: http
    target: https://b
`,
	}
	for name, raw := range cases {
		if _, err := LoadConfig(writeConfig(t, "publishers.yaml", raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSinkConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  SinkConfig
		want string
	}{
		{"no id", SinkConfig{Kind: KindHTTP, Target: "https://a"}, "id is required"},
		{"no type", SinkConfig{ID: "x", Target: "https://a"}, "type is required"},
		{"unknown type", SinkConfig{ID: "x", Kind: "kafka", Target: "t"}, "unknown type"},
		{"no target", SinkConfig{ID: "x", Kind: KindHTTP}, "target is required"},
		{"relative webhook", SinkConfig{ID: "x", Kind: KindHTTP, Target: "/hook"}, "absolute"},
		{"webhook with region", SinkConfig{ID: "x", Kind: KindHTTP, Target: "https://a", Region: "eu"}, "region does not apply"},
		{"queue without region", SinkConfig{ID: "x", Kind: KindSQS, Target: "https://q"}, "region is required"},
		{"topic not arn", SinkConfig{ID: "x", Kind: KindSNS, Target: "lookups", Region: "eu"}, "topic arn"},
		{"half aws keys", SinkConfig{ID: "x", Kind: KindSNS, Target: "arn:aws:sns:eu:1:t", Region: "eu",
			Credentials: Credentials{AccessKeyID: "AKIA"}}, "both access_key_id"},
		{"queue with headers", SinkConfig{ID: "x", Kind: KindSQS, Target: "https://q", Region: "eu",
			Headers: map[string]string{"a": "b"}}, "headers does not apply"},
		{"pubsub without project", SinkConfig{ID: "x", Kind: KindPubSub, Target: "t"}, "project is required"},
		{"pubsub topic path", SinkConfig{ID: "x", Kind: KindPubSub, Project: "p", Target: "projects/p/topics/t"}, "bare topic id"},
	}
	for _, tc := range cases {
		err := tc.cfg.normalized().validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}

	ok := SinkConfig{ID: "x", Kind: KindPubSub, Project: "p", Target: "t", Credentials: Credentials{File: "sa.json"}}
	if err := ok.normalized().validate(); err != nil {
		t.Fatalf("valid pubsub sink rejected: %v", err)
	}
}
