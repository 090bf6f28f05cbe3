package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"FlowCS/entity"
	"FlowCS/internal/config"
	"FlowCS/internal/lib/sl"
)

const recognizeInstructions = `You are a natural language understanding engine. Parse the user's
input and reply with a single valid JSON object, nothing else:
{"intent": "<intent>", "slots": {"<slot_name>": "<value>", ...}}
Rules: pick the intent from the provided list only; use "Fallback" when
none applies; omit slots you did not extract; never invent slot values.`

const classifyInstructions = `You are a routing engine for a multi-domain assistant. Decide which
domain the user's message belongs to and reply with exactly one domain
identifier from the provided list, nothing else.`

// Engine performs intent recognition and domain classification through
// an OpenAI-compatible chat completion endpoint.
type Engine struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

// New creates an NLU engine from the service configuration.
func New(conf *config.Config, log *slog.Logger) *Engine {
	clientConfig := openai.DefaultConfig(conf.OpenAI.ApiKey)
	if conf.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = conf.OpenAI.BaseURL
	}
	return &Engine{
		client: openai.NewClientWithConfig(clientConfig),
		model:  conf.OpenAI.Model,
		log:    log.With(sl.Module("ai.nlu")),
	}
}

// Recognize maps user text onto one of the available intents and
// extracts slot values. A transport error is returned to the caller; a
// malformed model reply degrades to the fallback intent because the
// service itself answered.
func (e *Engine) Recognize(ctx context.Context, text, currentState string, requiredSlots, availableIntents []string) (entity.Recognition, error) {
	fallback := entity.Recognition{Intent: "Fallback", Slots: map[string]string{}}

	contextPrompt := fmt.Sprintf(
		"Available intents: [%s]\nCurrent state: %s\nRequired slots: [%s]\n\nUser input: %s",
		strings.Join(availableIntents, ", "),
		currentState,
		strings.Join(requiredSlots, ", "),
		text,
	)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recognizeInstructions},
			{Role: openai.ChatMessageRoleUser, Content: contextPrompt},
		},
	})
	if err != nil {
		return fallback, fmt.Errorf("nlu completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fallback, fmt.Errorf("nlu completion: empty response")
	}

	raw := stripFences(resp.Choices[0].Message.Content)

	var rec entity.Recognition
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		e.log.With(
			slog.String("response", raw),
			sl.Err(err),
		).Warn("unparsable nlu response, using fallback intent")
		return fallback, nil
	}
	if rec.Slots == nil {
		rec.Slots = map[string]string{}
	}
	return rec, nil
}

// Classify picks the domain the text belongs to. Any failure, or an
// answer outside the configured set, degrades to an empty string; the
// caller resolves that to its fallback domain.
func (e *Engine) Classify(ctx context.Context, text string, domains []string) (string, error) {
	contextPrompt := fmt.Sprintf(
		"Domains: [%s]\n\nUser input: %s",
		strings.Join(domains, ", "),
		text,
	)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyInstructions},
			{Role: openai.ChatMessageRoleUser, Content: contextPrompt},
		},
	})
	if err != nil {
		e.log.Warn("domain classification failed", sl.Err(err))
		return "", nil
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	answer := strings.TrimSpace(stripFences(resp.Choices[0].Message.Content))
	for _, domain := range domains {
		if strings.EqualFold(answer, domain) {
			return domain, nil
		}
	}

	e.log.Debug("classifier named unknown domain", slog.String("answer", answer))
	return "", nil
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
