package aiscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/goliatone/go-questflow/pkg/validation"
)

const scorerSystemPrompt = `You grade questionnaire answers for an immigration-planning product.
Given the answer, the other answers and the applicant profile, reply with a
single JSON object: {"consistency": <0..1>, "realism": <0..1>, "hint": "<one short sentence>"}.
Consistency measures agreement with the other answers and the profile;
realism measures plausibility of the answer on its own.`

// completionsService is the minimal slice of the OpenAI client the scorer
// needs, kept narrow so tests can stub it.
type completionsService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI scores answers through a chat completion call. It satisfies the same
// Scorer contract as Heuristic, so swapping it in is a one-line change; the
// validation engine already treats its failures as recoverable.
type OpenAI struct {
	chat  completionsService
	model openai.ChatModel
}

// OpenAIOption customises the scorer.
type OpenAIOption func(*OpenAI)

// WithModel overrides the completion model.
func WithModel(model openai.ChatModel) OpenAIOption {
	return func(s *OpenAI) { s.model = model }
}

// NewOpenAI builds a scorer with its own API client.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("aiscore: api key is required")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	completions := client.Chat.Completions
	scorer := &OpenAI{chat: &completions, model: openai.ChatModelGPT4oMini}
	for _, opt := range opts {
		if opt != nil {
			opt(scorer)
		}
	}
	return scorer, nil
}

// Score asks the model for a consistency/realism grade and parses its JSON
// reply.
func (s *OpenAI) Score(ctx context.Context, input validation.ScoreInput) (validation.ScoreResult, error) {
	payload, err := json.Marshal(map[string]any{
		"question": input.QuestionID,
		"answer":   input.Value,
		"answers":  input.Answers,
		"profile":  input.Profile,
	})
	if err != nil {
		return validation.ScoreResult{}, fmt.Errorf("aiscore: encode input: %w", err)
	}

	resp, err := s.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scorerSystemPrompt),
			openai.UserMessage(string(payload)),
		},
	})
	if err != nil {
		return validation.ScoreResult{}, fmt.Errorf("aiscore: completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return validation.ScoreResult{}, errors.New("aiscore: no choices returned")
	}

	return parseScore(resp.Choices[0].Message.Content)
}

func parseScore(content string) (validation.ScoreResult, error) {
	content = strings.TrimSpace(content)
	// Models occasionally wrap JSON in a code fence; strip it.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var decoded struct {
		Consistency float64 `json:"consistency"`
		Realism     float64 `json:"realism"`
		Hint        string  `json:"hint"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &decoded); err != nil {
		return validation.ScoreResult{}, fmt.Errorf("aiscore: parse reply: %w", err)
	}
	return validation.ScoreResult{
		Consistency: clamp01(decoded.Consistency),
		Realism:     clamp01(decoded.Realism),
		Hint:        decoded.Hint,
	}, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
