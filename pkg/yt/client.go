package yt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultDataBaseURL      = "https://www.googleapis.com/youtube/v3"
	defaultAnalyticsBaseURL = "https://youtubeanalytics.googleapis.com/v2"
	googleTokenURL          = "https://oauth2.googleapis.com/token"

	// Wide-open default window when no period is requested.
	allTimeStart = "2006-01-01"
)

// statsMetrics are requested from the Analytics API on every stats query.
var statsMetrics = []string{
	"views",
	"averageViewDuration",
	"averageViewPercentage",
	"estimatedMinutesWatched",
	"likes",
	"comments",
	"subscribersGained",
	"subscribersLost",
}

// Metadata is what the Data API knows about a video.
type Metadata struct {
	Title        string
	Description  string
	PublishedAt  string
	Duration     string
	ChannelTitle string
	Thumbnails   map[string]string
}

// Client talks to the YouTube Data API (API key) for metadata and the
// YouTube Analytics API (OAuth refresh token) for engagement stats.
type Client struct {
	apiKey           string
	httpClient       *http.Client
	analyticsClient  *http.Client
	dataBaseURL      string
	analyticsBaseURL string
	now              func() time.Time
}

// Credentials is the OAuth identity used for the Analytics API.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

func NewClient(apiKey string, creds Credentials) *Client {
	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
		Scopes: []string{
			"https://www.googleapis.com/auth/yt-analytics.readonly",
			"https://www.googleapis.com/auth/youtube.readonly",
		},
	}

	return &Client{
		apiKey:           apiKey,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		analyticsClient:  cfg.Client(context.Background(), &oauth2.Token{RefreshToken: creds.RefreshToken}),
		dataBaseURL:      defaultDataBaseURL,
		analyticsBaseURL: defaultAnalyticsBaseURL,
		now:              time.Now,
	}
}

// statsWindow resolves the report date range for a video and period.
// elapsed is false when the period has not fully passed since publish, in
// which case no stats should be reported yet.
func (c *Client) statsWindow(publishedAt, period string) (start, end string, elapsed bool, err error) {
	if publishedAt == "" || period == "" {
		return allTimeStart, c.now().Format("2006-01-02"), true, nil
	}

	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return "", "", false, fmt.Errorf("invalid publishedAt %q: %w", publishedAt, err)
	}

	var endAt time.Time
	switch period {
	case "24hr":
		endAt = published.Add(24 * time.Hour)
	case "48hr":
		endAt = published.Add(48 * time.Hour)
	case "7d":
		endAt = published.Add(7 * 24 * time.Hour)
	default:
		endAt = c.now()
	}

	start = published.Format("2006-01-02")
	end = endAt.Format("2006-01-02")

	if end > c.now().Format("2006-01-02") {
		return start, end, false, nil
	}

	return start, end, true, nil
}

func buildQuery(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return q.Encode()
}
