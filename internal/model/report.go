package model

import "errors"

const (
	VerdictSuccess = "Success"
	VerdictFailure = "Failure"
	VerdictNeutral = "Neutral"
)

func ValidVerdict(v string) bool {
	return v == VerdictSuccess || v == VerdictFailure || v == VerdictNeutral
}

const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockLinkPreview      = "link_preview"
	BlockImage            = "image"
	BlockNumberedListItem = "numbered_list_item"
)

func ValidBlockType(t string) bool {
	switch t {
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockLinkPreview, BlockImage, BlockNumberedListItem:
		return true
	}
	return false
}

// ContentBlock is one typed unit of the publishable report. URL is only set
// for link_preview blocks.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

var (
	ErrInvalidPeriod     = errors.New("invalid period: must be one of 24hr, 48hr, 7d")
	ErrInvalidVerdict    = errors.New("hypothesis result outside Success/Failure/Neutral")
	ErrSchemaViolation   = errors.New("stage output does not match its contract")
	ErrSourceUnavailable = errors.New("metric source unavailable")
	ErrPublishFailure    = errors.New("publish sink rejected the write")
)
