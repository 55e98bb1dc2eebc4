package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/cadpilot/internal/core"
)

type OpenAI struct {
	baseProvider
	maxTokens int
}

func NewOpenAI(apiKey, model string, maxTokens int) *OpenAI {
	return &OpenAI{
		baseProvider: newBaseProvider("https://api.openai.com", apiKey, model),
		maxTokens:    maxTokens,
	}
}

func (o *OpenAI) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":                 o.model,
		"messages":              history,
		"max_completion_tokens": o.maxTokens,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}

	data, err := o.post(ctx, "/v1/chat/completions", payload, headers)
	if err != nil {
		return core.Message{}, err
	}

	return parseOpenAIResponse(data)
}

func parseOpenAIResponse(data []byte) (core.Message, error) {
	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message, nil
}
