package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/omarselim/codeviz/internal/llm"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	call      int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := s.call
	s.call++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &llm.CompletionResponse{Content: s.responses[i]}, nil
}

func TestDescribeStripsFence(t *testing.T) {
	p := &scriptedProvider{responses: []string{"```markdown\n**Execution Steps:**\n1. do it\n```"}}
	g := NewGenerator(p, "test-model")

	got, err := g.Describe(context.Background(), "OrderService", "processOrder", "")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if strings.Contains(got, "```") {
		t.Errorf("fence not stripped: %q", got)
	}
	if !strings.Contains(got, "**Execution Steps:**") {
		t.Errorf("content lost: %q", got)
	}
}

func TestDescribeNonRetryableErrorSurfaces(t *testing.T) {
	p := &scriptedProvider{
		errs:      []error{errors.New("invalid api key")},
		responses: []string{""},
	}
	g := NewGenerator(p, "test-model")

	if _, err := g.Describe(context.Background(), "A", "b", ""); err == nil {
		t.Error("expected error to surface")
	}
	if p.call != 1 {
		t.Errorf("non-retryable error should not retry, got %d calls", p.call)
	}
}

func TestBuildMessagesNamesTarget(t *testing.T) {
	msgs := buildMessages("CartService", "addItem", "uses Redis")
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("first message should be system, got %s", msgs[0].Role)
	}
	user := msgs[1].Content
	if !strings.Contains(user, "CartService.addItem") || !strings.Contains(user, "uses Redis") {
		t.Errorf("user message incomplete: %q", user)
	}
}
