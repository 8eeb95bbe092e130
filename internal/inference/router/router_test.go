package router

import (
	"testing"

	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/inference/engine/oaihttp"
	"github.com/appback/lottoguide-api/internal/inference/engine/stub"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

func TestNewSelectsBackend(t *testing.T) {
	b, err := New(config.BackendConfig{Type: "stub"}, logger.Nop())
	if err != nil {
		t.Fatalf("New(stub): %v", err)
	}
	if _, ok := b.(*stub.Backend); !ok {
		t.Fatalf("expected stub backend, got %T", b)
	}

	b, err = New(config.BackendConfig{Type: "oai_http", BaseURL: "http://llm.local"}, logger.Nop())
	if err != nil {
		t.Fatalf("New(oai_http): %v", err)
	}
	if _, ok := b.(*oaihttp.Backend); !ok {
		t.Fatalf("expected oaihttp backend, got %T", b)
	}
}

func TestNewRejectsUnknownOrIncomplete(t *testing.T) {
	if _, err := New(config.BackendConfig{Type: "carrier_pigeon"}, logger.Nop()); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := New(config.BackendConfig{Type: "oai_http"}, logger.Nop()); err == nil {
		t.Fatalf("expected error for missing base url")
	}
}
