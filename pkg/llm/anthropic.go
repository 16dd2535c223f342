package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) Evaluate(input EvaluationInput) (*EvaluationResult, error) {
	content, err := c.complete(evaluationSystemPrompt, formatEvaluationInput(input))
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

func (c *AnthropicClient) WriteReport(evaluation string) (string, error) {
	return c.complete(reportSystemPrompt, evaluation)
}

func (c *AnthropicClient) FormatBlocks(report string) ([]Block, error) {
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

func (c *AnthropicClient) complete(systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return resp.Content[0].Text, nil
}
