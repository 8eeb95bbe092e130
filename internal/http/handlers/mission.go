package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/appback/lottoguide-api/internal/domain/mission"
	"github.com/appback/lottoguide-api/internal/http/response"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/mission"
	"github.com/appback/lottoguide-api/internal/mission/zodiac"
	"github.com/appback/lottoguide-api/internal/platform/apierr"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

const birthDateLayout = "2006-01-02"

type MissionAssembler interface {
	Assemble(ctx context.Context, req mission.Request) (*types.Mission, error)
}

type MissionHandler struct {
	assembler MissionAssembler
	log       *logger.Logger
}

func NewMissionHandler(assembler MissionAssembler, log *logger.Logger) *MissionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &MissionHandler{assembler: assembler, log: log.With("handler", "MissionHandler")}
}

// phraseID accepts a JSON string or number and keeps it as an opaque string.
type phraseID struct {
	v *string
}

func (p *phraseID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		p.v = nil
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New("phrase id must be a string or number")
		}
		s = n.String()
	}
	s = strings.TrimSpace(s)
	if s == "" {
		p.v = nil
		return nil
	}
	p.v = &s
	return nil
}

type createMissionRequest struct {
	Numbers   []int    `json:"numbers"`
	BirthDate *string  `json:"birthDate"`
	PhraseAID phraseID `json:"phraseAId"`
	PhraseBID phraseID `json:"phraseBId"`
	PhraseCID phraseID `json:"phraseCId"`
}

type missionResponse struct {
	MissionText  string    `json:"missionText"`
	Tone         string    `json:"tone"`
	TokenUsage   *int      `json:"tokenUsage"`
	CostEstimate *float64  `json:"costEstimate"`
	ZodiacSign   *string   `json:"zodiacSign"`
	ZodiacName   *string   `json:"zodiacName,omitempty"`
	PhraseAID    *string   `json:"phraseAId"`
	PhraseBID    *string   `json:"phraseBId"`
	PhraseCID    *string   `json:"phraseCId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// POST /api/v1/missions
func (h *MissionHandler) CreateMission(c *gin.Context) {
	var body createMissionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondAPIError(c, apierr.BadRequest("invalid request body"))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	m, err := h.assembler.Assemble(c.Request.Context(), req)
	if err != nil {
		h.respondAssembleError(c, err)
		return
	}
	response.RespondOK(c, toMissionResponse(m))
}

func (b createMissionRequest) toRequest() (mission.Request, error) {
	numbers := types.Combination(b.Numbers)
	if !numbers.Valid() {
		return mission.Request{}, apierr.BadRequest("numbers must be %d distinct values in %d..%d", types.ComboSize, types.MinNumber, types.MaxNumber)
	}
	req := mission.Request{
		Numbers: numbers,
		PhraseRefs: types.PhraseRefs{
			A: b.PhraseAID.v,
			B: b.PhraseBID.v,
			C: b.PhraseCID.v,
		},
	}
	if b.BirthDate != nil && strings.TrimSpace(*b.BirthDate) != "" {
		d, err := time.Parse(birthDateLayout, strings.TrimSpace(*b.BirthDate))
		if err != nil {
			return mission.Request{}, apierr.BadRequest("birthDate must be YYYY-MM-DD")
		}
		req.BirthDate = &d
	}
	return req, nil
}

func (h *MissionHandler) respondAssembleError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, engine.ErrBusy):
		c.Header("Retry-After", "5")
		response.RespondError(c, http.StatusTooManyRequests, apierr.CodeBusy, errors.New("AI 서비스가 혼잡합니다. 잠시 후 다시 시도해 주세요."))
	case errors.Is(err, mission.ErrPolicyViolation):
		response.RespondError(c, http.StatusUnprocessableEntity, apierr.CodePolicyViolation, mission.ErrPolicyViolation)
	case errors.Is(err, mission.ErrGenerationInvalid):
		response.RespondError(c, http.StatusBadGateway, apierr.CodeGenerationInvalid, mission.ErrGenerationInvalid)
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		h.log.Error("mission assembly failed", "error", err)
		response.RespondAPIError(c, err)
	}
}

func toMissionResponse(m *types.Mission) missionResponse {
	out := missionResponse{
		MissionText:  m.Text,
		Tone:         string(m.Tone),
		TokenUsage:   m.TokenUsage,
		CostEstimate: m.CostEstimate,
		PhraseAID:    m.PhraseRefs.A,
		PhraseBID:    m.PhraseRefs.B,
		PhraseCID:    m.PhraseRefs.C,
		CreatedAt:    m.CreatedAt,
	}
	if m.ZodiacSign != nil {
		code := m.ZodiacSign.String()
		name := zodiac.KoreanName(*m.ZodiacSign)
		out.ZodiacSign = &code
		if name != "" {
			out.ZodiacName = &name
		}
	}
	return out
}
