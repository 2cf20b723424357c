package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medical-analysis-service/config"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type fakeMessager struct {
	resp   *anthropic.Message
	err    error
	params anthropic.MessageNewParams
}

func (f *fakeMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	return f.resp, f.err
}

func textMessage(blocks ...string) *anthropic.Message {
	msg := &anthropic.Message{}
	for _, b := range blocks {
		msg.Content = append(msg.Content, anthropic.ContentBlockUnion{Type: "text", Text: b})
	}
	return msg
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{Model: "claude-3-5-haiku-latest"}
}

func TestGenerateReturnsText(t *testing.T) {
	fake := &fakeMessager{resp: textMessage("Disclaimer: general information only.\n", "1. Rest and fluids.")}
	g := newAnthropicGateway(fake, testConfig())

	got, err := g.Generate(context.Background(), "summary text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Disclaimer: general information only.\n1. Rest and fluids."
	if got != want {
		t.Errorf("Generate = %q, want %q", got, want)
	}
}

func TestGeneratePromptContainsSummary(t *testing.T) {
	fake := &fakeMessager{resp: textMessage("ok")}
	g := newAnthropicGateway(fake, testConfig())

	summary := "Based on the analysis, the key medical conditions and symptoms include: fever."
	if _, err := g.Generate(context.Background(), summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.params.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(fake.params.Messages))
	}
	block := fake.params.Messages[0].Content[0]
	if block.OfText == nil {
		t.Fatal("expected a text content block")
	}
	prompt := block.OfText.Text
	if !strings.Contains(prompt, summary) {
		t.Errorf("prompt does not contain summary: %q", prompt)
	}
	if strings.Contains(prompt, "{summary}") {
		t.Error("placeholder was not substituted")
	}
	if fake.params.Model != anthropic.Model("claude-3-5-haiku-latest") {
		t.Errorf("model = %q", fake.params.Model)
	}
}

func TestGenerateCustomTemplate(t *testing.T) {
	fake := &fakeMessager{resp: textMessage("ok")}
	cfg := testConfig()
	cfg.PromptTemplate = "Advise on: {summary}"
	g := newAnthropicGateway(fake, cfg)

	if _, err := g.Generate(context.Background(), "mild fever"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := fake.params.Messages[0].Content[0].OfText.Text
	if prompt != "Advise on: mild fever" {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestGenerateWrapsUpstreamError(t *testing.T) {
	fake := &fakeMessager{err: errors.New("connection refused")}
	g := newAnthropicGateway(fake, testConfig())

	_, err := g.Generate(context.Background(), "summary")
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("error = %v, want ErrGeneration", err)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *anthropic.Message
	}{
		{"no blocks", &anthropic.Message{}},
		{"whitespace only", textMessage("  \n ")},
		{"non-text blocks only", &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "tool_use"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newAnthropicGateway(&fakeMessager{resp: tt.resp}, testConfig())
			if _, err := g.Generate(context.Background(), "summary"); !errors.Is(err, ErrGeneration) {
				t.Errorf("error = %v, want ErrGeneration", err)
			}
		})
	}
}
