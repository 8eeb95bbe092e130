package mission

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	types "github.com/appback/lottoguide-api/internal/domain/mission"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/inference/engine/stub"
	"github.com/appback/lottoguide-api/internal/mission/policy"
	"github.com/appback/lottoguide-api/internal/observability"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestAssembler(b engine.Backend, opts ...Option) *Assembler {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewAssembler(b, nil, nil, nil, opts...)
}

func birth(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAssembleWithStub(t *testing.T) {
	metrics := observability.NewMetrics()
	a := newTestAssembler(stub.New(), WithMetrics(metrics))

	ref := "p-1"
	got, err := a.Assemble(context.Background(), Request{
		Numbers:    types.Combination{1, 2, 3, 4, 5, 45},
		BirthDate:  birth(1990, time.January, 15),
		PhraseRefs: types.PhraseRefs{A: &ref},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	wantText := stub.Placeholder + policy.New(nil).Disclaimer()
	if got.Text != wantText {
		t.Fatalf("text = %q, want %q", got.Text, wantText)
	}
	if got.Tone != types.ToneLight {
		t.Fatalf("tone = %q", got.Tone)
	}
	wantTags := `{"combo_tags":["odd_heavy","sum_low","consecutive","low_heavy","end_digit_varied"],"align_tags":["earth","practical","lonely"],"tone":"light"}`
	if got.InputTags != wantTags {
		t.Fatalf("input tags = %s, want %s", got.InputTags, wantTags)
	}
	if got.ZodiacSign == nil || *got.ZodiacSign != types.Capricorn {
		t.Fatalf("zodiac = %v, want capricorn", got.ZodiacSign)
	}
	if got.TokenUsage != nil || got.CostEstimate != nil {
		t.Fatalf("stub should report no usage, got %v %v", got.TokenUsage, got.CostEstimate)
	}
	if !got.CreatedAt.Equal(fixedNow) {
		t.Fatalf("created_at = %v", got.CreatedAt)
	}
	if got.PhraseRefs.A == nil || *got.PhraseRefs.A != "p-1" || got.PhraseRefs.B != nil {
		t.Fatalf("phrase refs not passed through: %+v", got.PhraseRefs)
	}
	if n := metrics.MissionCount("ok"); n != 1 {
		t.Fatalf("ok missions = %v", n)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	var prompts []engine.Prompt
	b := engine.BackendFunc(func(_ context.Context, p engine.Prompt) (engine.Result, error) {
		prompts = append(prompts, p)
		return engine.Result{Text: "오늘은 가벼운 산책으로 하루를 시작해 보세요."}, nil
	})
	a := newTestAssembler(b)
	req := Request{Numbers: types.Combination{7, 14, 21, 28, 35, 42}, BirthDate: birth(1985, time.July, 30)}

	first, err := a.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := a.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Text != second.Text || first.InputTags != second.InputTags || *first.ZodiacSign != *second.ZodiacSign {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
	if prompts[0] != prompts[1] {
		t.Fatalf("prompts differ:\n%+v\n%+v", prompts[0], prompts[1])
	}
}

func TestAssemblePromptOmitsBirthDateAndSign(t *testing.T) {
	var seen engine.Prompt
	b := engine.BackendFunc(func(_ context.Context, p engine.Prompt) (engine.Result, error) {
		seen = p
		return engine.Result{Text: "오늘은 가벼운 산책으로 하루를 시작해 보세요."}, nil
	})
	a := newTestAssembler(b)
	_, err := a.Assemble(context.Background(), Request{
		Numbers:   types.Combination{1, 2, 3, 4, 5, 45},
		BirthDate: birth(1990, time.January, 15),
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	all := strings.ToLower(seen.System + "\n" + seen.User)
	for _, leak := range []string{"1990", "01-15", "capricorn", "염소자리"} {
		if strings.Contains(all, leak) {
			t.Fatalf("prompt leaks %q:\n%s", leak, all)
		}
	}
	if !strings.Contains(seen.User, "consecutive") {
		t.Fatalf("prompt missing combo tags:\n%s", seen.User)
	}
}

func TestAssembleWithoutBirthDate(t *testing.T) {
	a := newTestAssembler(stub.New())
	got, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{2, 4, 6, 8, 10, 12}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got.ZodiacSign != nil {
		t.Fatalf("zodiac = %v, want nil", *got.ZodiacSign)
	}
	if !strings.Contains(got.InputTags, `"align_tags":[]`) {
		t.Fatalf("input tags = %s", got.InputTags)
	}
}

func TestAssembleInvalidCombinationStillGenerates(t *testing.T) {
	a := newTestAssembler(stub.New())
	got, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(got.InputTags, `"combo_tags":[]`) {
		t.Fatalf("input tags = %s", got.InputTags)
	}
}

func TestAssembleBusyPassesThrough(t *testing.T) {
	metrics := observability.NewMetrics()
	b := engine.BackendFunc(func(context.Context, engine.Prompt) (engine.Result, error) {
		return engine.Result{}, engine.Busy("rate limited", errors.New("429"))
	})
	a := newTestAssembler(b, WithMetrics(metrics))
	_, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3, 4, 5, 6}})
	if !errors.Is(err, engine.ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if n := metrics.MissionCount("busy"); n != 1 {
		t.Fatalf("busy missions = %v", n)
	}
}

func TestAssembleTimeoutIsBusy(t *testing.T) {
	b := engine.BackendFunc(func(ctx context.Context, _ engine.Prompt) (engine.Result, error) {
		<-ctx.Done()
		return engine.Result{}, ctx.Err()
	})
	a := newTestAssembler(b, WithGenerationTimeout(10*time.Millisecond))
	_, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3, 4, 5, 6}})
	if !errors.Is(err, engine.ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
}

func TestAssembleOtherBackendError(t *testing.T) {
	boom := errors.New("boom")
	b := engine.BackendFunc(func(context.Context, engine.Prompt) (engine.Result, error) {
		return engine.Result{}, boom
	})
	a := newTestAssembler(b)
	_, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3, 4, 5, 6}})
	if !errors.Is(err, boom) || errors.Is(err, engine.ErrBusy) {
		t.Fatalf("err = %v", err)
	}
}

func TestAssembleRejectsShortText(t *testing.T) {
	for _, text := range []string{"", "   ", "짧은 문장"} {
		b := engine.BackendFunc(func(context.Context, engine.Prompt) (engine.Result, error) {
			return engine.Result{Text: text}, nil
		})
		a := newTestAssembler(b)
		_, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3, 4, 5, 6}})
		if !errors.Is(err, ErrGenerationInvalid) {
			t.Fatalf("text %q: err = %v, want ErrGenerationInvalid", text, err)
		}
	}
}

func TestAssembleRejectsForbiddenPhrase(t *testing.T) {
	metrics := observability.NewMetrics()
	b := engine.BackendFunc(func(context.Context, engine.Prompt) (engine.Result, error) {
		return engine.Result{Text: "This is guaranteed to be your lucky day"}, nil
	})
	a := newTestAssembler(b, WithMetrics(metrics))
	got, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3, 4, 5, 6}})
	if got != nil {
		t.Fatalf("mission = %+v, want nil", got)
	}
	if !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("err = %v, want ErrPolicyViolation", err)
	}
	var perr *PolicyViolationError
	if !errors.As(err, &perr) || len(perr.Violations) == 0 || perr.Violations[0] != "guaranteed" {
		t.Fatalf("violations = %+v", perr)
	}
	if strings.Contains(err.Error(), "guarantee") {
		t.Fatalf("error message leaks phrase: %q", err.Error())
	}
	if n := metrics.MissionCount("policy"); n != 1 {
		t.Fatalf("policy missions = %v", n)
	}
}

func TestAssembleCarriesUsage(t *testing.T) {
	usage, cost := 42, 0.01
	b := engine.BackendFunc(func(context.Context, engine.Prompt) (engine.Result, error) {
		return engine.Result{Text: "  오늘은 가벼운 산책으로 하루를 시작해 보세요.  ", TokenUsage: &usage, CostEstimate: &cost}, nil
	})
	a := newTestAssembler(b)
	got, err := a.Assemble(context.Background(), Request{Numbers: types.Combination{1, 2, 3, 4, 5, 6}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got.TokenUsage == nil || *got.TokenUsage != 42 || got.CostEstimate == nil || *got.CostEstimate != 0.01 {
		t.Fatalf("usage = %v cost = %v", got.TokenUsage, got.CostEstimate)
	}
	if !strings.HasPrefix(got.Text, "오늘은") {
		t.Fatalf("text not trimmed: %q", got.Text)
	}
}
