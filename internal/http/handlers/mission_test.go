package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/appback/lottoguide-api/internal/domain/mission"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/mission"
)

type assembleFunc func(ctx context.Context, req mission.Request) (*types.Mission, error)

func (f assembleFunc) Assemble(ctx context.Context, req mission.Request) (*types.Mission, error) {
	return f(ctx, req)
}

func serve(t *testing.T, a MissionAssembler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/missions", NewMissionHandler(a, nil).CreateMission)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/missions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestCreateMissionSuccess(t *testing.T) {
	sign := types.Capricorn
	usage := 12
	var got mission.Request
	a := assembleFunc(func(_ context.Context, req mission.Request) (*types.Mission, error) {
		got = req
		return &types.Mission{
			Text:       "오늘은 가벼운 산책으로 하루를 시작해 보세요.",
			Tone:       types.ToneLight,
			CreatedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			TokenUsage: &usage,
			ZodiacSign: &sign,
			PhraseRefs: req.PhraseRefs,
		}, nil
	})

	rec := serve(t, a, `{"numbers":[1,2,3,4,5,45],"birthDate":"1990-01-15","phraseAId":17,"phraseBId":"b-2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got.BirthDate == nil || got.BirthDate.Format("2006-01-02") != "1990-01-15" {
		t.Fatalf("birth date = %v", got.BirthDate)
	}
	if len(got.Numbers) != 6 || got.Numbers[5] != 45 {
		t.Fatalf("numbers = %v", got.Numbers)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["missionText"] != "오늘은 가벼운 산책으로 하루를 시작해 보세요." {
		t.Fatalf("missionText = %v", resp["missionText"])
	}
	if resp["zodiacSign"] != "capricorn" || resp["zodiacName"] != "염소자리" {
		t.Fatalf("zodiac = %v / %v", resp["zodiacSign"], resp["zodiacName"])
	}
	if resp["tokenUsage"] != float64(12) || resp["costEstimate"] != nil {
		t.Fatalf("usage = %v cost = %v", resp["tokenUsage"], resp["costEstimate"])
	}
	if resp["phraseAId"] != "17" || resp["phraseBId"] != "b-2" || resp["phraseCId"] != nil {
		t.Fatalf("phrase ids = %v %v %v", resp["phraseAId"], resp["phraseBId"], resp["phraseCId"])
	}
	if _, ok := resp["birthDate"]; ok {
		t.Fatalf("response must not echo the birth date")
	}
}

func TestCreateMissionBadInput(t *testing.T) {
	a := assembleFunc(func(context.Context, mission.Request) (*types.Mission, error) {
		t.Fatalf("assembler should not be called")
		return nil, nil
	})
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"numbers":`},
		{"too few numbers", `{"numbers":[1,2,3]}`},
		{"out of range", `{"numbers":[0,2,3,4,5,6]}`},
		{"duplicates", `{"numbers":[1,1,3,4,5,6]}`},
		{"bad birth date", `{"numbers":[1,2,3,4,5,6],"birthDate":"15/01/1990"}`},
		{"bad phrase id", `{"numbers":[1,2,3,4,5,6],"phraseAId":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, a, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			if code := errorCode(t, rec); code != "INVALID_REQUEST" {
				t.Fatalf("code = %q", code)
			}
		})
	}
}

func TestCreateMissionErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"busy", engine.Busy("rate limited", nil), http.StatusTooManyRequests, "AI_SERVICE_BUSY"},
		{"wrapped busy", errors.Join(errors.New("generate mission"), engine.ErrBusy), http.StatusTooManyRequests, "AI_SERVICE_BUSY"},
		{"policy", &mission.PolicyViolationError{Violations: []string{"guaranteed"}}, http.StatusUnprocessableEntity, "POLICY_VIOLATION"},
		{"invalid", mission.ErrGenerationInvalid, http.StatusBadGateway, "GENERATION_INVALID"},
		{"other", errors.New("db exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := assembleFunc(func(context.Context, mission.Request) (*types.Mission, error) {
				return nil, tc.err
			})
			rec := serve(t, a, `{"numbers":[1,2,3,4,5,6]}`)
			if rec.Code != tc.status {
				t.Fatalf("status = %d want %d", rec.Code, tc.status)
			}
			if code := errorCode(t, rec); code != tc.code {
				t.Fatalf("code = %q want %q", code, tc.code)
			}
			if strings.Contains(rec.Body.String(), "guaranteed") || strings.Contains(rec.Body.String(), "db exploded") {
				t.Fatalf("body leaks internals: %s", rec.Body.String())
			}
		})
	}
}
