package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/prompts"
)

// OpenAIBackend implements Backend using the official openai-go SDK
// (chat completions).
type OpenAIBackend struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIBackend creates a backend for the given model. baseURL is
// optional and supports OpenAI-compatible proxies.
func NewOpenAIBackend(model, apiKey, baseURL string, timeout time.Duration) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; provide LLM_API_KEY")
	}
	if model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAIBackend{model: model, opts: opts}, nil
}

func (b *OpenAIBackend) complete(ctx context.Context, prompt prompts.Prompt) (string, error) {
	client := openai.NewClient(b.opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
		openai.UserMessage(prompt.User),
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: msgs,
	})
	if err != nil {
		return "", domain.NewBackendError("openai_request", err.Error(), err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewBackendError("openai_empty", "empty choices in completion", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// Generate produces text for a stage prompt.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt prompts.Prompt) (string, error) {
	out, err := b.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", domain.NewBackendError("openai_empty", "model returned empty text", nil)
	}
	return out, nil
}

// Evaluate asks the model for a 0-10 score and parses the reply.
func (b *OpenAIBackend) Evaluate(ctx context.Context, stage domain.StageKind, text string) (float64, error) {
	out, err := b.complete(ctx, prompts.ForEvaluation(stage, text))
	if err != nil {
		return 0, err
	}
	score, err := parseScore(out)
	if err != nil {
		return 0, domain.NewBackendError("openai_score", fmt.Sprintf("unparseable score %q", out), err)
	}
	return score, nil
}

// parseScore extracts the leading number from the model reply and clamps it
// to [0,10].
func parseScore(reply string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(reply))
	if len(fields) == 0 {
		return 0, errors.New("empty reply")
	}
	raw := strings.TrimSuffix(fields[0], "/10")
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score, nil
}
