package itunes

// SearchResultDTO is the body returned by the lookup endpoint.
type SearchResultDTO struct {
	ResultCount int      `json:"resultCount"`
	Results     []AppDTO `json:"results"`
}

// AppDTO is a single application entry of a lookup response.
type AppDTO struct {
	TrackID            int64    `json:"trackId"`
	TrackName          string   `json:"trackName"`
	SellerName         string   `json:"sellerName"`
	BundleID           string   `json:"bundleId"`
	TrackViewURL       string   `json:"trackViewUrl"`
	ArtworkURL512      string   `json:"artworkUrl512"`
	Description        string   `json:"description"`
	AverageUserRating  float64  `json:"averageUserRating"`
	ScreenshotURLs     []string `json:"screenshotUrls"`
	IPadScreenshotURLs []string `json:"ipadScreenshotUrls"`
}

// App returns the first result, if any.
func (d SearchResultDTO) App() (AppDTO, bool) {
	if len(d.Results) == 0 {
		return AppDTO{}, false
	}
	return d.Results[0], true
}

// ScreenshotURLs returns the first app's iPhone screenshots, or its iPad
// screenshots when no iPhone ones are listed.
func (d SearchResultDTO) ScreenshotURLs() []string {
	app, ok := d.App()
	if !ok {
		return nil
	}
	src := app.ScreenshotURLs
	if len(src) == 0 {
		src = app.IPadScreenshotURLs
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
