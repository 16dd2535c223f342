package yt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stats queries the Analytics API for a video's engagement metrics over the
// given measurement window. When publishedAt and period are set and the
// period has not fully elapsed yet, an empty map is returned rather than
// partial numbers. With both empty, the window spans the video's whole life.
func (c *Client) Stats(videoID, publishedAt, period string) (map[string]float64, error) {
	start, end, elapsed, err := c.statsWindow(publishedAt, period)
	if err != nil {
		return nil, err
	}

	if !elapsed {
		return map[string]float64{}, nil
	}

	reqURL := fmt.Sprintf("%s/reports?%s", c.analyticsBaseURL, buildQuery(map[string]string{
		"ids":        "channel==MINE",
		"startDate":  start,
		"endDate":    end,
		"metrics":    strings.Join(statsMetrics, ","),
		"dimensions": "video",
		"filters":    "video==" + videoID,
	}))

	resp, err := c.analyticsClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("youtube analytics fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("youtube analytics fetch: status %d", resp.StatusCode)
	}

	var raw reportResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("youtube analytics decode: %w", err)
	}

	stats := make(map[string]float64)
	if len(raw.Rows) == 0 {
		return stats, nil
	}

	// First row only: the query filters to a single video. The video
	// dimension column is a string and is skipped.
	row := raw.Rows[0]
	for i, header := range raw.ColumnHeaders {
		if i >= len(row) {
			break
		}
		if v, ok := row[i].(float64); ok {
			stats[header.Name] = v
		}
	}

	return stats, nil
}

type reportResponse struct {
	ColumnHeaders []columnHeader  `json:"columnHeaders"`
	Rows          [][]interface{} `json:"rows"`
}

type columnHeader struct {
	Name string `json:"name"`
}
