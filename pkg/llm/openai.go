package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) Evaluate(input EvaluationInput) (*EvaluationResult, error) {
	userPrompt := formatEvaluationInput(input)

	content, err := c.complete(evaluationSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	content = cleanJSONResponse(content)

	var parsed struct {
		Evaluation       string `json:"evaluation"`
		HypothesisResult string `json:"hypothesis_result"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation response: %w, content: %s", err, content)
	}

	return &EvaluationResult{
		Evaluation:       parsed.Evaluation,
		HypothesisResult: parsed.HypothesisResult,
	}, nil
}

func (c *OpenAIClient) WriteReport(evaluation string) (string, error) {
	return c.complete(reportSystemPrompt, evaluation)
}

func (c *OpenAIClient) FormatBlocks(report string) ([]Block, error) {
	content, err := c.complete(formatSystemPrompt, report)
	if err != nil {
		return nil, err
	}

	content = cleanJSONResponse(content)

	var parsed struct {
		Blocks []Block `json:"blocks"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse blocks response: %w, content: %s", err, content)
	}

	return parsed.Blocks, nil
}

func (c *OpenAIClient) complete(systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
