package notion

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"
)

// VideoProperties are the experiment attributes recorded on a video's page.
type VideoProperties struct {
	Title       string
	Description string
	Descriptors []string
	Hypothesis  string
	VideoID     string
	Score       *float64
	Script      string
}

// Block is one unit of publishable report content. URL is only used by
// link_preview and image blocks.
type Block struct {
	Type string
	Text string
	URL  string
}

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

func (c *Client) newRequest(method, url string, body []byte) (*http.Request, error) {
	req, err := newJSONRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	return req, nil
}
