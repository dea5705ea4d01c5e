package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizlevel/internal/config"
	"bizlevel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply  string
	err    error
	delay  time.Duration
	prompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				f.prompt = tc.Text
			}
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLLMAssistant_Complete(t *testing.T) {
	model := &fakeModel{reply: "<think>pondering</think>\nUse a cash flow forecast."}
	a := NewLLMAssistant(model, time.Second)

	reply, err := a.Complete(context.Background(), "How do I plan cash?")

	require.NoError(t, err)
	assert.Equal(t, "Use a cash flow forecast.", reply)
	assert.Equal(t, "How do I plan cash?", model.prompt)
}

func TestLLMAssistant_Complete_Errors(t *testing.T) {
	var domainErr *domain.DomainError

	_, err := NewLLMAssistant(&fakeModel{err: errors.New("model offline")}, time.Second).Complete(context.Background(), "q")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)

	_, err = NewLLMAssistant(&fakeModel{reply: "ok", delay: time.Second}, 10*time.Millisecond).Complete(context.Background(), "q")
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, err.Error(), "timed out")

	_, err = NewLLMAssistant(&fakeModel{reply: "<think>only thoughts</think>"}, time.Second).Complete(context.Background(), "q")
	assert.Error(t, err)
}

func TestStripThinking(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain answer", "plain answer"},
		{"<think>a</think>answer", "answer"},
		{"pre <think>a</think> mid <think>b</think> post", "pre  mid  post"},
		{"answer <think>never closed", "answer"},
		{"  spaced  ", "spaced"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripThinking(c.in), c.in)
	}
}

func TestNewFromConfig_Validation(t *testing.T) {
	_, err := NewFromConfig(config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewFromConfig(config.LLMConfig{Provider: "ollama"})
	assert.Error(t, err)

	_, err = NewFromConfig(config.LLMConfig{Provider: "gemini", ServerURL: "x"})
	assert.Error(t, err)

	a, err := NewFromConfig(config.LLMConfig{Provider: "ollama", ServerURL: "http://localhost:11434", Model: "qwen3:0.6b"})
	require.NoError(t, err)
	assert.NotNil(t, a)
}
