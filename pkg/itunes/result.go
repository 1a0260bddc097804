package itunes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samvad-hq/itunes-screenshots/pkg/httpclient"
)

// Result carries either a decoded value or a *NetworkError.
type Result[T any] struct {
	Value T
	Err   error
}

func failed[T any](err *NetworkError) <-chan Result[T] {
	out := make(chan Result[T], 1)
	out <- Result[T]{Err: err}
	close(out)
	return out
}

// send runs the request on its own goroutine. The channel is buffered so the
// goroutine finishes even if nobody reads.
func send[T any](ctx context.Context, client httpclient.Client, req httpclient.Request) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		value, err := request[T](ctx, client, req)
		if err != nil {
			out <- Result[T]{Err: err}
			return
		}
		out <- Result[T]{Value: value}
	}()
	return out
}

func request[T any](ctx context.Context, client httpclient.Client, req httpclient.Request) (T, error) {
	var zero T

	resp, err := client.Do(ctx, req)
	if err != nil {
		return zero, unknownError(err.Error())
	}
	if !httpclient.IsSuccess(resp.StatusCode()) {
		return zero, statusCodeError(resp.StatusCode())
	}

	var out T
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return zero, unknownError(fmt.Sprintf("decode response: %v", err))
	}
	return out, nil
}
