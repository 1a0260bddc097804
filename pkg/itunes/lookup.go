package itunes

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/itunes-screenshots/pkg/httpclient"
)

const (
	// BaseURL is the default iTunes Store API address.
	BaseURL = "http://itunes.apple.com/"

	lookupPath    = "lookup"
	appIDQueryKey = "id"
)

// DefaultTimeout bounds a lookup made through DefaultHTTPClient with no explicit timeout.
const DefaultTimeout = 15 * time.Second

// DefaultHTTPClient returns a resty transport. A non-positive timeout falls back
// to DefaultTimeout and an empty userAgent leaves resty's own.
func DefaultHTTPClient(timeout time.Duration, userAgent string) httpclient.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpclient.NewRestyClient(timeout, userAgent)
}

// lookupTarget is either readyTarget or invalidTarget, decided at construction.
type lookupTarget interface {
	isLookupTarget()
}

type readyTarget struct {
	url string
}

type invalidTarget struct {
	reason string
}

func (readyTarget) isLookupTarget()   {}
func (invalidTarget) isLookupTarget() {}

// AppLookup describes a single lookup call for one application identifier.
type AppLookup struct {
	appID   string
	baseURL string
	client  httpclient.Client
	headers map[string]string
	target  lookupTarget
}

// Option customizes an AppLookup.
type Option func(*AppLookup)

// WithBaseURL overrides the API base address.
func WithBaseURL(base string) Option {
	return func(l *AppLookup) { l.baseURL = base }
}

// WithClient injects the transport.
func WithClient(c httpclient.Client) Option {
	return func(l *AppLookup) {
		if c != nil {
			l.client = c
		}
	}
}

// WithHeaders attaches extra request headers.
func WithHeaders(h map[string]string) Option {
	return func(l *AppLookup) { l.headers = h }
}

// NewAppLookup builds the lookup descriptor. URL construction failures are not
// returned here; they surface from FetchData.
func NewAppLookup(appID string, opts ...Option) AppLookup {
	l := AppLookup{
		appID:   appID,
		baseURL: BaseURL,
	}
	for _, opt := range opts {
		opt(&l)
	}
	if l.client == nil {
		l.client = DefaultHTTPClient(0, "")
	}

	u, err := buildLookupURL(l.baseURL, l.appID)
	if err != nil {
		l.target = invalidTarget{reason: err.Error()}
	} else {
		l.target = readyTarget{url: u}
	}
	return l
}

// buildLookupURL appends the lookup path to base and attaches the id query item.
func buildLookupURL(base, appID string) (string, error) {
	if strings.TrimSpace(appID) == "" {
		return "", errors.New("app id is empty")
	}

	parsed, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("base url must be absolute")
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", errors.New("base url must not carry a query or fragment")
	}

	u := parsed.JoinPath(lookupPath)
	q := url.Values{}
	q.Set(appIDQueryKey, appID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// AppID returns the target application identifier.
func (l AppLookup) AppID() string { return l.appID }

// Method returns the HTTP method of the lookup.
func (l AppLookup) Method() string { return http.MethodGet }

// URL returns the derived request URL, or false when construction failed.
func (l AppLookup) URL() (string, bool) {
	t, ok := l.target.(readyTarget)
	if !ok {
		return "", false
	}
	return t.url, true
}

// FetchData issues the lookup and delivers exactly one Result before the channel closes.
// An invalid URL fails immediately without calling the transport.
func (l AppLookup) FetchData(ctx context.Context) <-chan Result[SearchResultDTO] {
	switch t := l.target.(type) {
	case readyTarget:
		return send[SearchResultDTO](ctx, l.client, httpclient.Request{
			Method:  l.Method(),
			URL:     t.url,
			Headers: l.headers,
		})
	case invalidTarget:
		return failed[SearchResultDTO](urlIsNilError(t.reason))
	default:
		return failed[SearchResultDTO](urlIsNilError("lookup target missing"))
	}
}

// Fetch blocks until FetchData delivers.
func (l AppLookup) Fetch(ctx context.Context) (SearchResultDTO, error) {
	res := <-l.FetchData(ctx)
	return res.Value, res.Err
}
