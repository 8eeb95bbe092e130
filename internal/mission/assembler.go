// Package mission assembles personalized mission text from a number combination and an optional birth date.
package mission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	types "github.com/appback/lottoguide-api/internal/domain/mission"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/mission/align"
	"github.com/appback/lottoguide-api/internal/mission/combo"
	"github.com/appback/lottoguide-api/internal/mission/policy"
	"github.com/appback/lottoguide-api/internal/mission/prompt"
	"github.com/appback/lottoguide-api/internal/mission/sanitize"
	"github.com/appback/lottoguide-api/internal/mission/template"
	"github.com/appback/lottoguide-api/internal/mission/zodiac"
	"github.com/appback/lottoguide-api/internal/observability"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

// Request is one mission ask. BirthDate is optional and is only read while resolving the sign.
type Request struct {
	Numbers    types.Combination
	BirthDate  *time.Time
	PhraseRefs types.PhraseRefs
}

// Assembler runs the pipeline. It holds no per-request state and is safe for concurrent use.
type Assembler struct {
	backend  engine.Backend
	policy   *policy.Policy
	selector *template.Selector
	log      *logger.Logger
	metrics  *observability.Metrics

	now               func() time.Time
	generationTimeout time.Duration
	templateLimit     int
}

type Option func(*Assembler)

// WithGenerationTimeout bounds the backend call. A deadline hit there is reported as engine.ErrBusy.
func WithGenerationTimeout(d time.Duration) Option {
	return func(a *Assembler) { a.generationTimeout = d }
}

func WithTemplateLimit(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.templateLimit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

func NewAssembler(backend engine.Backend, pol *policy.Policy, sel *template.Selector, log *logger.Logger, opts ...Option) *Assembler {
	if pol == nil {
		pol = policy.New(nil)
	}
	if sel == nil {
		sel = template.NewSelector(template.Default())
	}
	if log == nil {
		log = logger.Nop()
	}
	a := &Assembler{
		backend:       backend,
		policy:        pol,
		selector:      sel,
		log:           log.With("component", "mission.Assembler"),
		metrics:       observability.Current(),
		now:           time.Now,
		templateLimit: 3,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble extracts tags, selects style hints, generates, sanitizes, applies policy and
// appends the disclaimer. Backend failures are returned wrapped and still match engine.ErrBusy.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*types.Mission, error) {
	ctx, span := observability.Tracer().Start(ctx, "mission.assemble")
	defer span.End()

	comboTags := combo.Extract(req.Numbers)
	sign := zodiac.Resolve(req.BirthDate)
	alignTags := align.Derive(sign)
	tone := types.ToneLight

	snapshot := types.InputSnapshot{
		ComboTags: comboTags.Strings(),
		AlignTags: alignTags.Strings(),
		Tone:      string(tone),
	}.JSON()

	templates := a.selector.Select(template.Request{
		Sign:      sign,
		AlignTags: align.DeriveWithCombo(sign, comboTags),
		ComboTags: comboTags,
	}, a.templateLimit)

	p := prompt.Build(prompt.Input{
		ComboTags: comboTags,
		AlignTags: alignTags,
		Tone:      tone,
		Templates: templates,
		Snapshot:  snapshot,
	})
	span.SetAttributes(
		attribute.StringSlice("mission.combo_tags", comboTags.Strings()),
		attribute.Int("mission.prompt_version", p.Version),
		attribute.Int("mission.templates", len(templates)),
	)

	res, err := a.generate(ctx, p)
	if err != nil {
		a.fail(span, err)
		return nil, err
	}

	text := sanitize.Sanitize(res.Text)
	if !sanitize.IsValid(text) {
		a.log.Warn("mission generation invalid", "length", len([]rune(text)))
		a.fail(span, ErrGenerationInvalid)
		return nil, ErrGenerationInvalid
	}
	if a.policy.Violates(text) {
		violations := a.policy.Check(text)
		for _, v := range violations {
			a.metrics.IncPolicyViolation(v)
		}
		a.log.Warn("mission rejected by policy", "violations", violations)
		perr := &PolicyViolationError{Violations: violations}
		a.fail(span, perr)
		return nil, perr
	}

	m := &types.Mission{
		Text:         text + a.policy.Disclaimer(),
		Tone:         tone,
		InputTags:    snapshot,
		CreatedAt:    a.now(),
		TokenUsage:   res.TokenUsage,
		CostEstimate: res.CostEstimate,
		ZodiacSign:   sign,
		PhraseRefs:   req.PhraseRefs,
	}
	a.metrics.IncMission("ok")
	a.log.Debug("mission assembled",
		"combo_tags", comboTags.Strings(),
		"align_tags", alignTags.Strings(),
		"templates", templateIDs(templates),
		"prompt_version", p.Version,
	)
	return m, nil
}

func (a *Assembler) generate(ctx context.Context, p engine.Prompt) (engine.Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "mission.generate")
	defer span.End()

	if a.generationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.generationTimeout)
		defer cancel()
	}

	res, err := a.backend.Generate(ctx, p)
	if err != nil {
		if !errors.Is(err, engine.ErrBusy) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = engine.Busy("generation deadline exceeded", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return engine.Result{}, fmt.Errorf("generate mission: %w", err)
	}
	if res.TokenUsage != nil {
		span.SetAttributes(attribute.Int("mission.usage", *res.TokenUsage))
	}
	return res, nil
}

func (a *Assembler) fail(span trace.Span, err error) {
	span.SetStatus(codes.Error, err.Error())
	switch {
	case errors.Is(err, engine.ErrBusy):
		a.metrics.IncMission("busy")
	case errors.Is(err, ErrGenerationInvalid):
		a.metrics.IncMission("invalid")
	case errors.Is(err, ErrPolicyViolation):
		a.metrics.IncMission("policy")
	default:
		a.metrics.IncMission("error")
	}
}

func templateIDs(ts []types.MissionTemplate) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}
