package pipeline

import (
	"fmt"
	"strings"

	"vidpulse/internal/model"
	"vidpulse/pkg/llm"
)

// Pipeline runs the three text-generation stages in strict order:
// evaluation, prose report, block formatting. Each stage's output is the
// entire input of the next; the first failure aborts the run. Stage output
// contracts are validated here, not in the agent clients, so every
// implementation fails closed the same way.
type Pipeline struct {
	agent llm.AgentClient
}

func New(agent llm.AgentClient) *Pipeline {
	return &Pipeline{agent: agent}
}

// Result is the publishable outcome of a full run.
type Result struct {
	Evaluation       string
	Report           string
	HypothesisResult string
	Blocks           []model.ContentBlock
}

func (p *Pipeline) Run(input llm.EvaluationInput) (*Result, error) {
	eval, err := p.agent.Evaluate(input)
	if err != nil {
		return nil, fmt.Errorf("evaluation stage: %w", err)
	}

	if !model.ValidVerdict(eval.HypothesisResult) {
		return nil, fmt.Errorf("%w: got %q", model.ErrInvalidVerdict, eval.HypothesisResult)
	}

	if strings.TrimSpace(eval.Evaluation) == "" {
		return nil, fmt.Errorf("%w: empty evaluation text", model.ErrSchemaViolation)
	}

	report, err := p.agent.WriteReport(eval.Evaluation)
	if err != nil {
		return nil, fmt.Errorf("report stage: %w", err)
	}

	if strings.TrimSpace(report) == "" {
		return nil, fmt.Errorf("%w: empty report text", model.ErrSchemaViolation)
	}

	rawBlocks, err := p.agent.FormatBlocks(report)
	if err != nil {
		return nil, fmt.Errorf("format stage: %w", err)
	}

	blocks, err := validateBlocks(rawBlocks)
	if err != nil {
		return nil, err
	}

	return &Result{
		Evaluation:       eval.Evaluation,
		Report:           report,
		HypothesisResult: eval.HypothesisResult,
		Blocks:           blocks,
	}, nil
}

func validateBlocks(raw []llm.Block) ([]model.ContentBlock, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: formatter returned no blocks", model.ErrSchemaViolation)
	}

	blocks := make([]model.ContentBlock, 0, len(raw))
	for i, b := range raw {
		if !model.ValidBlockType(b.Type) {
			return nil, fmt.Errorf("%w: block %d has unknown type %q", model.ErrSchemaViolation, i, b.Type)
		}

		if b.Type == model.BlockLinkPreview && strings.TrimSpace(b.URL) == "" {
			return nil, fmt.Errorf("%w: link_preview block %d missing url", model.ErrSchemaViolation, i)
		}

		blocks = append(blocks, model.ContentBlock{
			Type: b.Type,
			Text: stripMarkdown(b.Text),
			URL:  b.URL,
		})
	}

	return blocks, nil
}

// stripMarkdown normalizes markup the formatter should already have removed
// but occasionally leaks: heading hashes, list markers, emphasis and code
// fences. Block text must be plain; structure lives in the block type.
func stripMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		trimmed = strings.TrimLeft(trimmed, "#")
		trimmed = strings.TrimPrefix(trimmed, " ")
		trimmed = strings.TrimPrefix(trimmed, "- ")
		trimmed = strings.TrimPrefix(trimmed, "* ")
		lines[i] = trimmed
	}

	out := strings.Join(lines, "\n")
	out = strings.ReplaceAll(out, "**", "")
	out = strings.ReplaceAll(out, "__", "")
	out = strings.ReplaceAll(out, "`", "")
	return strings.TrimSpace(out)
}
