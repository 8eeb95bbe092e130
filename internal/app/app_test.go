package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

func TestBuildWithoutStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := build(context.Background(), config.Default(), logger.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.close(context.Background())

	if a.scheduler != nil {
		t.Fatalf("scheduler wired without a database")
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/missions", strings.NewReader(`{"numbers":[3,11,19,27,35,43]}`))
	req.Header.Set("Content-Type", "application/json")
	a.server.Engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d", rec.Code)
	}
}

func TestBuildWithSQLiteStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.DB = config.DBConfig{Driver: "sqlite", DSN: "file:apptest?mode=memory&cache=shared"}

	a, err := build(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.close(context.Background())

	if a.scheduler == nil {
		t.Fatalf("scheduler not wired")
	}
	rec := httptest.NewRecorder()
	a.server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "db") {
		t.Fatalf("readyz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestBuildRejectsMissingTemplates(t *testing.T) {
	cfg := config.Default()
	cfg.Mission.TemplatesPath = t.TempDir() + "/missing.yaml"
	if _, err := build(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatalf("expected error for missing template catalog")
	}
}
