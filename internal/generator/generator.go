// Package generator asks an OpenAI-compatible chat completion endpoint for
// volunteer responsibilities and safety guidelines for an event.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/config"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// ItemsPerList is how many entries the prompt asks for in each list.
const ItemsPerList = 5

var (
	ErrUpstreamFailure   = errors.New("content generation request failed")
	ErrMalformedResponse = errors.New("content generation returned malformed response")
)

const systemPrompt = "You generate structured JSON only. Never include markdown code fences or commentary."

// Generator is a single-attempt client for the generation endpoint.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	variation   func() int
}

// New builds a Generator from the AI section of the configuration.
func New(cfg config.AIConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		variation:   func() int { return rand.IntN(1_000_000) },
	}
}

// Generate returns five responsibilities and five safety guidelines for the
// event. Failures wrap ErrUpstreamFailure or ErrMalformedResponse.
func (g *Generator) Generate(ctx context.Context, p model.EventPrompt) (model.GeneratedContent, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	seed := g.variation()
	prompt := BuildPrompt(p, seed)
	log.WithField("title", p.Title).WithField("variation", seed).Debug("requesting generated event content")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		Seed:        &seed,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return model.GeneratedContent{}, fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}
	if len(resp.Choices) == 0 {
		return model.GeneratedContent{}, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	return ParseContent(resp.Choices[0].Message.Content)
}

// BuildPrompt renders the user instruction for an event. The variation marker
// nudges repeated calls for the same event toward different wording.
func BuildPrompt(p model.EventPrompt, variation int) string {
	var sb strings.Builder
	sb.WriteString("Generate volunteer responsibilities and safety guidelines for a community event.\n\n")
	sb.WriteString("Event details:\n")
	fmt.Fprintf(&sb, "Title: %s\n", p.Title)
	fmt.Fprintf(&sb, "Type: %s\n", p.Type)
	fmt.Fprintf(&sb, "Location: %s\n", p.Location)
	fmt.Fprintf(&sb, "Description: %s\n\n", p.Description)
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "- Generate exactly %d volunteer responsibilities\n", ItemsPerList)
	fmt.Fprintf(&sb, "- Generate exactly %d safety guidelines\n", ItemsPerList)
	sb.WriteString("- Return ONLY valid JSON\n")
	sb.WriteString("- No explanation, no markdown\n")
	fmt.Fprintf(&sb, "- Variation #%d: phrase the items freshly, do not reuse earlier wording\n\n", variation)
	sb.WriteString("Format:\n")
	sb.WriteString(`{
  "responsibilities": ["..."],
  "safetyGuidelines": ["..."]
}`)
	sb.WriteString("\n")
	return sb.String()
}

// ParseContent decodes the model's reply into the two lists. Blank entries
// are dropped, each list is capped at ItemsPerList and must not end up empty.
func ParseContent(text string) (model.GeneratedContent, error) {
	text = stripFences(text)

	var out model.GeneratedContent
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return model.GeneratedContent{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	out.Responsibilities = clean(out.Responsibilities)
	out.SafetyGuidelines = clean(out.SafetyGuidelines)
	if len(out.Responsibilities) == 0 || len(out.SafetyGuidelines) == 0 {
		return model.GeneratedContent{}, fmt.Errorf("%w: empty list", ErrMalformedResponse)
	}
	return out, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func clean(items []string) []string {
	out := make([]string, 0, ItemsPerList)
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == ItemsPerList {
			break
		}
	}
	return out
}

// Disabled is used when no generation endpoint is configured. Every call
// fails as an upstream failure so clients can retry without AI assistance.
type Disabled struct{}

func (Disabled) Generate(context.Context, model.EventPrompt) (model.GeneratedContent, error) {
	return model.GeneratedContent{}, fmt.Errorf("%w: ai generation is disabled", ErrUpstreamFailure)
}
