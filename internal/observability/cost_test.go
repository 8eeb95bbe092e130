package observability

import (
	"math"
	"testing"
)

func TestEstimateCost(t *testing.T) {
	rates := CostRates{InputPer1K: 0.5, OutputPer1K: 1.5}
	got := EstimateCost(2000, 1000, rates)
	if got == nil || math.Abs(*got-2.5) > 1e-9 {
		t.Fatalf("EstimateCost() = %v, want 2.5", got)
	}
	if EstimateCost(100, 100, CostRates{}) != nil {
		t.Fatalf("expected nil without rates")
	}
	if EstimateCost(0, 0, rates) != nil {
		t.Fatalf("expected nil without usage")
	}
}

func TestSampleRatio(t *testing.T) {
	cases := map[string]float64{"": 0.1, "abc": 0.1, "-1": 0, "2": 1, "0.25": 0.25}
	for in, want := range cases {
		if got := sampleRatio(in); got != want {
			t.Fatalf("sampleRatio(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders("api-key=abc, x-team = core ,broken,=nokey")
	if len(h) != 2 || h["api-key"] != "abc" || h["x-team"] != "core" {
		t.Fatalf("unexpected headers %v", h)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
