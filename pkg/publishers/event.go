package publishers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/samvad-hq/itunes-screenshots/pkg/itunes"
)

// Event represents the lookup outcome published downstream.
type Event struct {
	AppID           string    `json:"app_id"`
	TrackName       string    `json:"track_name"`
	SellerName      string    `json:"seller_name"`
	ScreenshotCount int       `json:"screenshot_count"`
	ScreenshotURLs  []string  `json:"screenshot_urls"`
	LookedUpAt      time.Time `json:"looked_up_at"`
}

// NewEvent constructs an Event for a successful lookup of appID.
func NewEvent(appID string, dto itunes.SearchResultDTO) Event {
	evt := Event{
		AppID:      appID,
		LookedUpAt: time.Now().UTC(),
	}
	if app, ok := dto.App(); ok {
		evt.TrackName = app.TrackName
		evt.SellerName = app.SellerName
	}
	evt.ScreenshotURLs = dto.ScreenshotURLs()
	evt.ScreenshotCount = len(evt.ScreenshotURLs)
	return evt
}

// message is an event ready for a sink: JSON body plus routing attributes.
type message struct {
	body       []byte
	attributes map[string]string
}

func (e Event) message() (message, error) {
	if e.AppID == "" {
		return message{}, fmt.Errorf("event has no app id")
	}
	body, err := json.Marshal(e)
	if err != nil {
		return message{}, fmt.Errorf("marshal event: %w", err)
	}
	return message{
		body: body,
		attributes: map[string]string{
			"app_id":           e.AppID,
			"screenshot_count": strconv.Itoa(e.ScreenshotCount),
		},
	}, nil
}
