// Package router picks the generation backend named by configuration.
package router

import (
	"fmt"
	"strings"

	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/inference/engine/oaihttp"
	"github.com/appback/lottoguide-api/internal/inference/engine/stub"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

// New returns the backend for cfg.Type. Unknown types are an error.
func New(cfg config.BackendConfig, log *logger.Logger) (engine.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", config.BackendStub, "mock":
		return stub.New(), nil
	case config.BackendOAIHTTP, "openai_http":
		b, err := oaihttp.New(cfg, log)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported backend type %q", cfg.Type)
	}
}
