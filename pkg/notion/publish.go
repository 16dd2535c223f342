package notion

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AppendBlocks appends report content to a page. The sink reports rejection
// as a false success signal rather than an error; transport failures are
// errors. Published state is never read back.
func (c *Client) AppendBlocks(pageID string, blocks []Block) (bool, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"children": toNotionBlocks(blocks),
	})
	if err != nil {
		return false, err
	}

	req, err := c.newRequest(http.MethodPatch, fmt.Sprintf("%s/blocks/%s/children", c.baseURL, pageID), payload)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("notion block append: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == 200, nil
}

// SetHypothesisResult writes the categorical verdict into the page's
// Hypothesis Result select property.
func (c *Client) SetHypothesisResult(pageID, result string) (bool, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"properties": map[string]interface{}{
			"Hypothesis Result": map[string]interface{}{
				"select": map[string]string{"name": result},
			},
		},
	})
	if err != nil {
		return false, err
	}

	req, err := c.newRequest(http.MethodPatch, fmt.Sprintf("%s/pages/%s", c.baseURL, pageID), payload)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("notion property update: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == 200, nil
}

func toNotionBlocks(blocks []Block) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(blocks))

	for _, b := range blocks {
		switch b.Type {
		case "paragraph", "heading_1", "heading_2", "numbered_list_item":
			out = append(out, map[string]interface{}{
				"object": "block",
				"type":   b.Type,
				b.Type: map[string]interface{}{
					"rich_text": []map[string]interface{}{
						{"type": "text", "text": map[string]string{"content": b.Text}},
					},
				},
			})
		case "link_preview":
			out = append(out, map[string]interface{}{
				"object": "block",
				"type":   "link_preview",
				"link_preview": map[string]string{
					"url": b.URL,
				},
			})
		case "image":
			out = append(out, map[string]interface{}{
				"object": "block",
				"type":   "image",
				"image": map[string]interface{}{
					"type":     "external",
					"external": map[string]string{"url": b.URL},
				},
			})
		}
	}

	return out
}
