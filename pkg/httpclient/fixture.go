package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
)

// FixtureClient is a deterministic Client that never touches the network.
// It serves a fixed payload, or a fixed failure status when Fail is set.
type FixtureClient struct {
	Payload    []byte
	Fail       bool
	FailStatus int

	mu       sync.Mutex
	calls    int
	requests []Request
}

// NewFixtureClient returns a client serving payload with status 200.
func NewFixtureClient(payload []byte) *FixtureClient {
	return &FixtureClient{Payload: payload}
}

// NewFailingFixtureClient returns a client answering every call with status.
func NewFailingFixtureClient(status int) *FixtureClient {
	return &FixtureClient{Fail: true, FailStatus: status}
}

// LoadFixture reads a JSON fixture file. Malformed fixtures are reported as errors
// so the caller decides whether that is fatal.
func LoadFixture(path string) (*FixtureClient, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	if !json.Valid(raw) {
		return nil, errors.New("fixture is not valid json")
	}
	return NewFixtureClient(raw), nil
}

// Do records the request and answers with the configured payload or failure.
func (f *FixtureClient) Do(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.Fail {
		status := f.FailStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return fixtureResponse{status: status}, nil
	}

	body := make([]byte, len(f.Payload))
	copy(body, f.Payload)
	return fixtureResponse{status: http.StatusOK, body: body}, nil
}

// Calls returns how many times Do was invoked.
func (f *FixtureClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Requests returns a copy of the recorded requests.
func (f *FixtureClient) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

type fixtureResponse struct {
	status int
	body   []byte
}

func (r fixtureResponse) Body() []byte    { return r.body }
func (r fixtureResponse) StatusCode() int { return r.status }
