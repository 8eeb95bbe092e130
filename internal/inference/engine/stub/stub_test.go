package stub

import (
	"context"
	"errors"
	"testing"

	"github.com/appback/lottoguide-api/internal/inference/engine"
)

func TestGenerateIgnoresPrompt(t *testing.T) {
	b := New()
	a, err := b.Generate(context.Background(), engine.Prompt{User: "one"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	c, _ := b.Generate(context.Background(), engine.Prompt{System: "x", User: "two", Version: 9})
	if a != c || a.Text != Placeholder {
		t.Fatalf("expected identical placeholder results, got %+v and %+v", a, c)
	}
	if a.TokenUsage != nil || a.CostEstimate != nil {
		t.Fatalf("stub should not report usage")
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Generate(ctx, engine.Prompt{})
	if !errors.Is(err, engine.ErrBusy) {
		t.Fatalf("expected busy, got %v", err)
	}
}
