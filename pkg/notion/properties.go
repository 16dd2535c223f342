package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetVideoProperties reads the experiment attributes off a page. Properties
// the page doesn't carry come back zero-valued.
func (c *Client) GetVideoProperties(pageID string) (*VideoProperties, error) {
	req, err := c.newRequest(http.MethodGet, fmt.Sprintf("%s/pages/%s", c.baseURL, pageID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion page fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("notion page fetch: status %d", resp.StatusCode)
	}

	var raw pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("notion page decode: %w", err)
	}

	props := raw.Properties

	return &VideoProperties{
		Title:       props.titleText("Video Title"),
		Description: props.richText("Description"),
		Descriptors: props.multiSelect("Descriptors"),
		Hypothesis:  props.richText("Hypothesis"),
		VideoID:     props.richText("YouTube ID"),
		Score:       props.number("Score"),
		Script:      props.richText("Script"),
	}, nil
}

type pageResponse struct {
	Properties pageProperties `json:"properties"`
}

type pageProperties map[string]propertyValue

type propertyValue struct {
	Title       []richTextItem `json:"title"`
	RichText    []richTextItem `json:"rich_text"`
	MultiSelect []selectOption `json:"multi_select"`
	Number      *float64       `json:"number"`
}

type richTextItem struct {
	PlainText string `json:"plain_text"`
}

type selectOption struct {
	Name string `json:"name"`
}

func (p pageProperties) titleText(name string) string {
	if v, ok := p[name]; ok && len(v.Title) > 0 {
		return v.Title[0].PlainText
	}
	return ""
}

func (p pageProperties) richText(name string) string {
	if v, ok := p[name]; ok && len(v.RichText) > 0 {
		return v.RichText[0].PlainText
	}
	return ""
}

func (p pageProperties) multiSelect(name string) []string {
	var values []string
	for _, opt := range p[name].MultiSelect {
		values = append(values, opt.Name)
	}
	return values
}

func (p pageProperties) number(name string) *float64 {
	return p[name].Number
}

func newJSONRequest(method, url string, body []byte) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(body))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
