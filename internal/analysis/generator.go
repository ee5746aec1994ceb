package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/omarselim/codeviz/internal/llm"
)

// Generator asks an LLM to describe a code execution flow in the sectioned
// markdown format the extractor consumes.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator using the given provider and model.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Describe produces the raw analysis text for one class/method. extra is
// free-form context (user prose, source snippets) passed through to the
// model.
func (g *Generator) Describe(ctx context.Context, className, methodName, extra string) (string, error) {
	resp, err := g.completeWithRetry(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    buildMessages(className, methodName, extra),
		MaxTokens:   2048,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	return stripFences(resp.Content), nil
}

// completeWithRetry calls the LLM with exponential backoff on rate limit and
// overload errors.
func (g *Generator) completeWithRetry(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	const maxRetries = 5
	backoff := 15 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := g.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}

		errStr := err.Error()
		retryable := strings.Contains(errStr, "rate_limit") ||
			strings.Contains(errStr, "429") ||
			strings.Contains(errStr, "too many requests") ||
			strings.Contains(errStr, "overloaded")
		if !retryable {
			return nil, err
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("rate limited after %d retries: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 2*time.Minute {
				backoff = 2 * time.Minute
			}
		}
	}
	return nil, fmt.Errorf("unreachable")
}

// stripFences removes a wrapping markdown code fence if the model added one
// despite instructions.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return raw
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
