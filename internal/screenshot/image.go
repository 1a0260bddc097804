package screenshot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/itunes-screenshots/pkg/httpclient"
)

const sniffBytes = 512

// Image is what the grid needs to know about a resolved screenshot.
type Image struct {
	URL         string
	ContentType string
	Size        int
}

// ImageLoader resolves a screenshot URL to an image.
type ImageLoader interface {
	Load(ctx context.Context, url string) (Image, error)
}

// HTTPImageLoader downloads images through an httpclient.Client.
type HTTPImageLoader struct {
	client httpclient.Client
}

// NewHTTPImageLoader builds a loader over client.
func NewHTTPImageLoader(client httpclient.Client) *HTTPImageLoader {
	return &HTTPImageLoader{client: client}
}

// Load fetches url and reports its sniffed content type and size.
func (l *HTTPImageLoader) Load(ctx context.Context, url string) (Image, error) {
	if strings.TrimSpace(url) == "" {
		return Image{}, fmt.Errorf("image url is empty")
	}
	resp, err := httpclient.Get(ctx, l.client, url, map[string]string{"Accept": "image/*"})
	if err != nil {
		return Image{}, fmt.Errorf("fetch image: %w", err)
	}
	if !httpclient.IsSuccess(resp.StatusCode()) {
		return Image{}, fmt.Errorf("image returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	sniff := body
	if len(sniff) > sniffBytes {
		sniff = sniff[:sniffBytes]
	}
	return Image{
		URL:         url,
		ContentType: http.DetectContentType(sniff),
		Size:        len(body),
	}, nil
}
