package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizlevel/internal/config"
	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultTimeout = 20 * time.Second

// llmAssistant implements domain.Assistant on top of a langchaingo model.
type llmAssistant struct {
	model   llms.Model
	timeout time.Duration
}

// NewLLMAssistant wraps an already constructed model.
func NewLLMAssistant(model llms.Model, timeout time.Duration) domain.Assistant {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &llmAssistant{model: model, timeout: timeout}
}

// NewFromConfig builds the configured provider client ("ollama" or "openai").
func NewFromConfig(cfg config.LLMConfig) (domain.Assistant, error) {
	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		model, err = openai.New(opts...)
	case "ollama", "":
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		model, err = ollama.New(ollama.WithModel(cfg.Model), ollama.WithServerURL(cfg.ServerURL))
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	return NewLLMAssistant(model, cfg.Timeout), nil
}

// Complete sends prompt to the model and returns the cleaned reply.
func (a *llmAssistant) Complete(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt, llms.WithTemperature(0.3))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Duration("timeout", a.timeout))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	reply := StripThinking(response)
	if reply == "" {
		return "", domain.NewLLMServiceError(errors.New("empty response from LLM"))
	}
	return reply, nil
}

// StripThinking removes <think>...</think> blocks emitted by reasoning models.
func StripThinking(s string) string {
	s = strings.TrimSpace(s)
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			// unterminated block: drop everything from the tag on
			return strings.TrimSpace(s[:start])
		}
		s = strings.TrimSpace(s[:start] + s[start+end+len("</think>"):])
	}
}
