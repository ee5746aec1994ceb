package llm

import (
	"context"
	"testing"
	"time"
)

type fakeProvider struct {
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	f.calls++
	return &CompletionResponse{Content: "ok"}, nil
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	fake := &fakeProvider{}
	limited := NewRateLimitedProvider(fake, 10)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := limited.Complete(ctx, CompletionRequest{}); err != nil {
			t.Fatalf("Complete %d: %v", i, err)
		}
	}
	if fake.calls != 5 {
		t.Errorf("expected 5 calls, got %d", fake.calls)
	}
}

func TestRateLimiterHonorsContextCancel(t *testing.T) {
	fake := &fakeProvider{}
	limited := NewRateLimitedProvider(fake, 1)

	ctx := context.Background()
	if _, err := limited.Complete(ctx, CompletionRequest{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Bucket empty now; a cancelled context must not block forever.
	cancelCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	if _, err := limited.Complete(cancelCtx, CompletionRequest{}); err == nil {
		t.Error("expected context error once bucket is empty")
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("carrier-pigeon", "model"); err == nil {
		t.Error("expected error for unsupported provider type")
	}
}
