// Package stub is the placeholder backend used until a real model is wired.
package stub

import (
	"context"

	"github.com/appback/lottoguide-api/internal/inference/engine"
)

// Placeholder is returned for every prompt.
const Placeholder = "LLM 서비스는 준비 중 입니다."

type Backend struct {
	Text string
}

func New() *Backend {
	return &Backend{Text: Placeholder}
}

// Generate ignores the prompt and reports no usage.
func (b *Backend) Generate(ctx context.Context, _ engine.Prompt) (engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return engine.Result{}, engine.Busy("context done", err)
	}
	return engine.Result{Text: b.Text}, nil
}
