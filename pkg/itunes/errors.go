package itunes

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the failures surfaced by the lookup API.
type ErrorKind int

const (
	KindURLIsNil ErrorKind = iota + 1
	KindStatusCode
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindURLIsNil:
		return "url_is_nil"
	case KindStatusCode:
		return "status_code"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NetworkError is the only error type FetchData delivers.
type NetworkError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrURLIsNil   = &NetworkError{Kind: KindURLIsNil}
	ErrStatusCode = &NetworkError{Kind: KindStatusCode}
	ErrUnknown    = &NetworkError{Kind: KindUnknown}
)

// Description returns the user-facing text for the error kind.
func (e *NetworkError) Description() string {
	switch e.Kind {
	case KindURLIsNil:
		return "the request url is not valid"
	case KindStatusCode:
		return "the server responded with an unsuccessful status code"
	default:
		return "an unknown error occurred"
	}
}

func (e *NetworkError) Error() string {
	switch {
	case e.Kind == KindStatusCode && e.StatusCode != 0:
		return fmt.Sprintf("%s (status %d)", e.Description(), e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Description(), e.Message)
	default:
		return e.Description()
	}
}

// Is reports whether target is a NetworkError of the same kind.
func (e *NetworkError) Is(target error) bool {
	var ne *NetworkError
	if !errors.As(target, &ne) {
		return false
	}
	return ne.Kind == e.Kind
}

func urlIsNilError(reason string) *NetworkError {
	return &NetworkError{Kind: KindURLIsNil, Message: reason}
}

func statusCodeError(status int) *NetworkError {
	return &NetworkError{Kind: KindStatusCode, StatusCode: status}
}

func unknownError(message string) *NetworkError {
	return &NetworkError{Kind: KindUnknown, Message: message}
}
