package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/appback/lottoguide-api/internal/http/handlers"
	"github.com/appback/lottoguide-api/internal/inference/engine/stub"
	"github.com/appback/lottoguide-api/internal/mission"
	"github.com/appback/lottoguide-api/internal/observability"
)

func TestRouterMissionEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	assembler := mission.NewAssembler(stub.New(), nil, nil, nil)
	r := NewRouter(RouterConfig{
		Metrics:         observability.NewMetrics(),
		MaxRequestBytes: 1 << 16,
		MissionHandler:  httpH.NewMissionHandler(assembler, nil),
		HealthHandler:   httpH.NewHealthHandler(nil),
	})

	for _, path := range []string{"/api/v1/missions", "/api/v1/mission"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"numbers":[1,2,3,4,5,45],"birthDate":"1990-01-15"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d body=%s", path, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: missing request id", path)
		}
		var resp struct {
			MissionText string `json:"missionText"`
			Tone        string `json:"tone"`
			ZodiacSign  string `json:"zodiacSign"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(resp.MissionText, stub.Placeholder) || !strings.Contains(resp.MissionText, "※") {
			t.Fatalf("missionText = %q", resp.MissionText)
		}
		if resp.Tone != "light" || resp.ZodiacSign != "capricorn" {
			t.Fatalf("tone=%q zodiac=%q", resp.Tone, resp.ZodiacSign)
		}
	}
}

func TestRouterHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Metrics:       observability.NewMetrics(),
		HealthHandler: httpH.NewHealthHandler(nil),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "lotto_api_requests_total") {
		t.Fatalf("metrics = %d %s", rec.Code, rec.Body.String())
	}
}
