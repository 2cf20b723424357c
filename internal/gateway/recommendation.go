package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medical-analysis-service/config"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ErrGeneration is returned for any recommendation generation failure:
// timeout, upstream unavailable or a malformed/empty response. Callers treat
// it as retryable and must not persist partial state.
var ErrGeneration = errors.New("recommendation generation failed")

const recommendationSystemPrompt = "You are a cautious medical information assistant. You provide general, commonly known information only, always begin with a clear medical disclaimer, and never present your output as medical advice."

// defaultPromptTemplate is configuration data, not core logic; deployments
// override it via LLM_PROMPT_TEMPLATE. The {summary} placeholder is replaced
// with the composed analysis summary.
const defaultPromptTemplate = `Based on the following medical summary, provide detailed recommendations in these categories:

1. Specific Medications:
- List common over-the-counter medications with their generic and brand names
- Mention typical dosage forms (tablets, capsules, etc.)
- Include common medication classes that doctors might prescribe

2. Alternative Treatments:
- List specific supplements and natural remedies with dosages
- Mention specific herbal medicines commonly used

3. Home Remedies:
- Provide detailed recipes or preparation methods
- Include specific ingredients and their quantities
- Mention how often to apply/use each remedy

4. Lifestyle Modifications:
- Specific dietary changes with food examples
- Exact exercise recommendations with duration and frequency
- Precise sleep and stress management techniques

Format each section clearly with bullet points and include specific examples.
Important: Begin your response with a clear medical disclaimer.

Medical Summary: {summary}

Response:`

// RecommendationGateway wraps the external generation collaborator behind a
// stable interface. May block; callers supply the timeout via ctx, and
// cancellation surfaces as ErrGeneration like any other failure.
type RecommendationGateway interface {
	Generate(ctx context.Context, summary string) (string, error)
}

// AnthropicMessager is the slice of the Anthropic client the gateway uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicGateway struct {
	messages AnthropicMessager
	model    string
	template string
}

func NewAnthropicGateway(cfg config.LLMConfig) *AnthropicGateway {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return newAnthropicGateway(&client.Messages, cfg)
}

func newAnthropicGateway(messages AnthropicMessager, cfg config.LLMConfig) *AnthropicGateway {
	template := cfg.PromptTemplate
	if strings.TrimSpace(template) == "" {
		template = defaultPromptTemplate
	}
	return &AnthropicGateway{
		messages: messages,
		model:    cfg.Model,
		template: template,
	}
}

func (g *AnthropicGateway) Generate(ctx context.Context, summary string) (string, error) {
	prompt := strings.ReplaceAll(g.template, "{summary}", summary)

	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Text: recommendationSystemPrompt}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return text, nil
}
