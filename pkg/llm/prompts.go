package llm

import (
	"fmt"
	"sort"
	"strings"
)

const evaluationSystemPrompt = `You are a creative performance analyst for short-form video content.

Your goals:
1. Compare the current video's metrics against baseline and past video history.
2. Identify patterns across history (e.g. script style, hook type, face presence) that correlate with better or worse outcomes.
3. Evaluate whether the hypothesis tested in the current video led to a positive, neutral, or negative outcome.
4. Provide actionable recommendations for the next iteration.
5. Output a final determination on the success of the hypothesis.

Structure your written evaluation around:
<report>
  <what_went_well></what_went_well>
  <what_didnt_go_well></what_didnt_go_well>
  <test_result></test_result>
  <comparative_patterns></comparative_patterns>
  <suggestions></suggestions>
</report>

Output as JSON only, no other text:
{
  "evaluation": "the full written evaluation",
  "hypothesis_result": "one of: Success, Failure, Neutral"
}`

const reportSystemPrompt = `You are a report writer that takes evaluation results and formats them into a structured report.

The provided evaluation uses an XML format to structure the key findings and recommendations. Generate a human readable report that captures the essence of the evaluation while maintaining clarity and coherence.

Output plain text only: a human-readable report summarizing the key findings and recommendations from the evaluation.`

const formatSystemPrompt = `You are a content formatter that takes text content and formats it into JSON blocks.

Allowed block types: paragraph, heading_1, heading_2, link_preview, image, numbered_list_item. Each block has a type and text field. A link_preview block must also have a url field linking to the source of the content. Remove any markdown formatting; block text must be plain.

Output as JSON only, no other text:
{
  "blocks": [
    {"type": "heading_1", "text": "Report title"},
    {"type": "paragraph", "text": "Body text"}
  ]
}`

// metricOrder fixes how metrics appear in prompts so runs are reproducible.
var metricOrder = []string{
	"views",
	"likes",
	"comments",
	"average_view_duration",
	"average_percentage_viewed",
	"subs_gained",
}

func formatEvaluationInput(input EvaluationInput) string {
	var sb strings.Builder

	sb.WriteString("<current_video>\n")
	for _, kind := range metricOrder {
		if v := input.Current[kind]; v != nil {
			sb.WriteString(fmt.Sprintf("  <%s>%g</%s>\n", kind, *v, kind))
		} else {
			sb.WriteString(fmt.Sprintf("  <%s>n/a</%s>\n", kind, kind))
		}
	}
	sb.WriteString("</current_video>\n")

	sb.WriteString("<baselines>\n")
	for _, kind := range metricOrder {
		sb.WriteString(fmt.Sprintf("  <%s>%g</%s>\n", kind, input.Baseline[kind], kind))
	}
	sb.WriteString("</baselines>\n")

	if len(input.Deltas) > 0 {
		sb.WriteString("<deltas_vs_baseline>\n")
		keys := make([]string, 0, len(input.Deltas))
		for k := range input.Deltas {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if d := input.Deltas[k]; d != nil {
				sb.WriteString(fmt.Sprintf("  <%s>%+.1f%%</%s>\n", k, *d, k))
			} else {
				sb.WriteString(fmt.Sprintf("  <%s>no baseline</%s>\n", k, k))
			}
		}
		sb.WriteString("</deltas_vs_baseline>\n")
	}

	sb.WriteString(fmt.Sprintf("<period>%s</period>\n", input.Period))
	sb.WriteString(fmt.Sprintf("<hypothesis>%s</hypothesis>\n", input.Hypothesis))

	sb.WriteString("<descriptors>\n")
	for _, d := range input.Descriptors {
		sb.WriteString(fmt.Sprintf("  <descriptor>%s</descriptor>\n", d))
	}
	sb.WriteString("</descriptors>\n")

	if input.Script != "" {
		sb.WriteString(fmt.Sprintf("<script>%s</script>\n", input.Script))
	}

	if len(input.History) > 0 {
		sb.WriteString("<history>\n")
		for _, h := range input.History {
			sb.WriteString(formatHistoryEntry(h))
		}
		sb.WriteString("</history>\n")
	}

	return sb.String()
}

func formatHistoryEntry(h HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString("  <video>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", h.Title))
	for _, d := range h.Descriptors {
		sb.WriteString(fmt.Sprintf("    <descriptor>%s</descriptor>\n", d))
	}
	sb.WriteString(fmt.Sprintf("    <hypothesis>%s</hypothesis>\n", h.Hypothesis))
	keys := make([]string, 0, len(h.Results))
	for k := range h.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("    <%s>%s</%s>\n", k, h.Results[k], k))
	}
	sb.WriteString("  </video>\n")
	return sb.String()
}
