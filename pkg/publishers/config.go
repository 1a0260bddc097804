package publishers

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sink kinds.
const (
	KindHTTP   = "http"
	KindSQS    = "sqs"
	KindSNS    = "sns"
	KindPubSub = "gcp_pubsub"
)

const defaultWebhookTimeoutSeconds = 5

// SinkConfig declares one destination for lookup events. Target is the
// webhook URL, SQS queue URL, SNS topic ARN or Pub/Sub topic id, by kind.
type SinkConfig struct {
	ID             string            `yaml:"id"`
	Kind           string            `yaml:"type"`
	Enabled        *bool             `yaml:"enabled"`
	Target         string            `yaml:"target"`
	Region         string            `yaml:"region"`
	Project        string            `yaml:"project"`
	Endpoint       string            `yaml:"endpoint"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Credentials    Credentials       `yaml:"credentials"`
}

// Credentials are static secrets for a sink. AWS sinks use the key pair,
// Pub/Sub uses File. Empty values fall back to the provider's default chain.
type Credentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	File            string `yaml:"file"`
}

func (c Credentials) hasAWSKeys() bool {
	return c.AccessKeyID != "" || c.SecretAccessKey != "" || c.SessionToken != ""
}

// IsEnabled reports the enabled flag, true when unset.
func (c SinkConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LoadConfig reads sink declarations from a YAML (or JSON) file. Unknown keys,
// duplicate ids and settings that do not apply to a sink's kind are rejected.
func LoadConfig(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open publishers file: %w", err)
	}
	defer f.Close()

	var doc struct {
		Publishers []SinkConfig `yaml:"publishers"`
	}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode publishers file %s: %w", path, err)
	}
	if len(doc.Publishers) == 0 {
		return nil, errors.New("publishers file declares no publishers")
	}

	seen := make(map[string]struct{}, len(doc.Publishers))
	for i := range doc.Publishers {
		cfg := doc.Publishers[i].normalized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		doc.Publishers[i] = cfg
	}
	return doc.Publishers, nil
}

func (c SinkConfig) normalized() SinkConfig {
	trim := strings.TrimSpace
	c.ID = trim(c.ID)
	c.Kind = strings.ToLower(trim(c.Kind))
	c.Target = trim(c.Target)
	c.Region = trim(c.Region)
	c.Project = trim(c.Project)
	c.Endpoint = trim(c.Endpoint)
	c.Credentials = Credentials{
		AccessKeyID:     trim(c.Credentials.AccessKeyID),
		SecretAccessKey: trim(c.Credentials.SecretAccessKey),
		SessionToken:    trim(c.Credentials.SessionToken),
		File:            trim(c.Credentials.File),
	}
	if c.Kind == KindHTTP && c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultWebhookTimeoutSeconds
	}
	if len(c.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k = trim(k); k != "" {
				headers[k] = trim(v)
			}
		}
		c.Headers = headers
	}
	return c
}

func (c SinkConfig) validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Target == "" {
		return fmt.Errorf("publisher %q: target is required", c.ID)
	}

	var problems []string
	reject := func(set bool, field string) {
		if set {
			problems = append(problems, field+" does not apply to "+c.Kind)
		}
	}

	switch c.Kind {
	case KindHTTP:
		if !isAbsoluteURL(c.Target) {
			problems = append(problems, "target must be an absolute http(s) url")
		}
		reject(c.Region != "", "region")
		reject(c.Project != "", "project")
		reject(c.Endpoint != "", "endpoint")
		reject(c.Credentials != (Credentials{}), "credentials")
	case KindSQS, KindSNS:
		if c.Region == "" {
			problems = append(problems, "region is required")
		}
		if c.Kind == KindSQS && !isAbsoluteURL(c.Target) {
			problems = append(problems, "target must be the queue url")
		}
		if c.Kind == KindSNS && !strings.HasPrefix(c.Target, "arn:") {
			problems = append(problems, "target must be a topic arn")
		}
		if c.Credentials.hasAWSKeys() && (c.Credentials.AccessKeyID == "" || c.Credentials.SecretAccessKey == "") {
			problems = append(problems, "credentials need both access_key_id and secret_access_key")
		}
		reject(c.Credentials.File != "", "credentials.file")
		reject(c.Project != "", "project")
		reject(len(c.Headers) > 0, "headers")
	case KindPubSub:
		if c.Project == "" {
			problems = append(problems, "project is required")
		}
		if strings.Contains(c.Target, "/") {
			problems = append(problems, "target must be a bare topic id")
		}
		reject(c.Credentials.hasAWSKeys(), "aws credentials")
		reject(c.Region != "", "region")
		reject(len(c.Headers) > 0, "headers")
	case "":
		return fmt.Errorf("publisher %q: type is required", c.ID)
	default:
		return fmt.Errorf("publisher %q: unknown type %q", c.ID, c.Kind)
	}

	if len(problems) > 0 {
		return fmt.Errorf("publisher %q: %s", c.ID, strings.Join(problems, "; "))
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
