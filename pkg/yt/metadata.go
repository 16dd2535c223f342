package yt

import (
	"encoding/json"
	"fmt"
)

// Metadata fetches title, publish date, duration and channel info for a
// video from the Data API. An unknown video id yields (nil, nil).
func (c *Client) Metadata(videoID string) (*Metadata, error) {
	reqURL := fmt.Sprintf("%s/videos?%s", c.dataBaseURL, buildQuery(map[string]string{
		"part": "snippet,contentDetails",
		"id":   videoID,
		"key":  c.apiKey,
	}))

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("youtube metadata fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("youtube metadata fetch: status %d", resp.StatusCode)
	}

	var raw videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("youtube metadata decode: %w", err)
	}

	if len(raw.Items) == 0 {
		return nil, nil
	}

	item := raw.Items[0]

	thumbnails := make(map[string]string, len(item.Snippet.Thumbnails))
	for size, t := range item.Snippet.Thumbnails {
		thumbnails[size] = t.URL
	}

	return &Metadata{
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		PublishedAt:  item.Snippet.PublishedAt,
		Duration:     item.ContentDetails.Duration,
		ChannelTitle: item.Snippet.ChannelTitle,
		Thumbnails:   thumbnails,
	}, nil
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	Snippet        videoSnippet        `json:"snippet"`
	ContentDetails videoContentDetails `json:"contentDetails"`
}

type videoSnippet struct {
	Title        string                    `json:"title"`
	Description  string                    `json:"description"`
	PublishedAt  string                    `json:"publishedAt"`
	ChannelTitle string                    `json:"channelTitle"`
	Thumbnails   map[string]videoThumbnail `json:"thumbnails"`
}

type videoThumbnail struct {
	URL string `json:"url"`
}

type videoContentDetails struct {
	Duration string `json:"duration"`
}
