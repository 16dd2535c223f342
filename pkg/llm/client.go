package llm

// EvaluationInput carries everything the evaluation stage sees about one
// video. Current and Baseline are keyed by bare metric kind (views, likes,
// comments, average_view_duration, average_percentage_viewed, subs_gained);
// a nil Current value means no data for that metric. Deltas are percentage
// changes against baseline, nil where the baseline was 0.
type EvaluationInput struct {
	Period      string
	Current     map[string]*float64
	Baseline    map[string]float64
	Deltas      map[string]*float64
	Hypothesis  string
	Descriptors []string
	Script      string
	History     []HistoryEntry
}

// HistoryEntry summarizes a previously analyzed video. The caller currently
// always passes an empty history; the shape is kept for when it doesn't.
type HistoryEntry struct {
	Title       string
	Descriptors []string
	Hypothesis  string
	Results     map[string]string
}

type EvaluationResult struct {
	Evaluation       string
	HypothesisResult string
}

// Block is one unit of formatted report content. URL is only set for
// link_preview blocks.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type AgentClient interface {
	Evaluate(input EvaluationInput) (*EvaluationResult, error)
	WriteReport(evaluation string) (string, error)
	FormatBlocks(report string) ([]Block, error)
}
