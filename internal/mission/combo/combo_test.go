package combo

import (
	"reflect"
	"testing"

	"github.com/appback/lottoguide-api/internal/domain/mission"
)

func TestExtractInvalidInputReturnsEmpty(t *testing.T) {
	cases := map[string]mission.Combination{
		"nil":         nil,
		"short":       {1, 2, 3, 4, 5},
		"long":        {1, 2, 3, 4, 5, 6, 7},
		"duplicate":   {1, 1, 2, 3, 4, 5},
		"zero":        {0, 2, 3, 4, 5, 6},
		"above_range": {1, 2, 3, 4, 5, 46},
		"negative":    {-1, 2, 3, 4, 5, 6},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got := Extract(c)
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty non-nil set, got %#v", got)
			}
		})
	}
}

func TestExtractOneTagPerGroup(t *testing.T) {
	combos := []mission.Combination{
		{1, 2, 3, 4, 5, 45},
		{40, 41, 42, 43, 44, 45},
		{2, 4, 6, 8, 10, 12},
		{1, 13, 25, 31, 38, 44},
		{7, 14, 21, 28, 35, 42},
	}
	for _, c := range combos {
		got := Extract(c)
		if len(got) != len(mission.ComboGroups) {
			t.Fatalf("%v: expected %d tags, got %v", c, len(mission.ComboGroups), got)
		}
		for i, tag := range got {
			if tag.Group() != mission.ComboGroups[i] {
				t.Fatalf("%v: tag %q at %d has group %q, want %q", c, tag, i, tag.Group(), mission.ComboGroups[i])
			}
		}
	}
}

func TestExtractKnownCombination(t *testing.T) {
	got := Extract(mission.Combination{1, 2, 3, 4, 5, 45})
	want := mission.ComboTags{
		mission.ComboOddHeavy,
		mission.ComboSumLow,
		mission.ComboConsecutive,
		mission.ComboLowHeavy,
		mission.ComboEndDigitVaried,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractOrderIndependent(t *testing.T) {
	a := Extract(mission.Combination{45, 3, 1, 5, 2, 4})
	b := Extract(mission.Combination{1, 2, 3, 4, 5, 45})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("order changed result: %v vs %v", a, b)
	}
	if !reflect.DeepEqual(b, Extract(mission.Combination{1, 2, 3, 4, 5, 45})) {
		t.Fatalf("extraction is not deterministic")
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	c := mission.Combination{45, 3, 1, 5, 2, 4}
	Extract(c)
	if !reflect.DeepEqual(c, mission.Combination{45, 3, 1, 5, 2, 4}) {
		t.Fatalf("input mutated: %v", c)
	}
}

func TestSumBoundaries(t *testing.T) {
	cases := []struct {
		combo mission.Combination
		want  mission.ComboTag
	}{
		{mission.Combination{10, 15, 20, 30, 35, 40}, mission.ComboSumHigh}, // 150
		{mission.Combination{10, 15, 20, 29, 35, 40}, mission.ComboSumMid},  // 149
		{mission.Combination{5, 10, 15, 20, 22, 28}, mission.ComboSumLow},   // 100
		{mission.Combination{5, 10, 15, 20, 22, 29}, mission.ComboSumMid},   // 101
	}
	for _, tc := range cases {
		got := Extract(tc.combo)
		if !got.Has(tc.want) {
			t.Fatalf("%v: expected %q in %v", tc.combo, tc.want, got)
		}
	}
}

func TestParityBoundaries(t *testing.T) {
	cases := []struct {
		combo mission.Combination
		want  mission.ComboTag
	}{
		{mission.Combination{1, 3, 5, 7, 2, 4}, mission.ComboOddHeavy},
		{mission.Combination{1, 3, 5, 2, 4, 6}, mission.ComboBalanced},
		{mission.Combination{1, 3, 2, 4, 6, 8}, mission.ComboEvenHeavy},
		{mission.Combination{2, 4, 6, 8, 10, 12}, mission.ComboEvenHeavy},
	}
	for _, tc := range cases {
		got := Extract(tc.combo)
		if !got.Has(tc.want) {
			t.Fatalf("%v: expected %q in %v", tc.combo, tc.want, got)
		}
	}
}

func TestRangeAndEndDigit(t *testing.T) {
	cases := []struct {
		combo mission.Combination
		want  []mission.ComboTag
	}{
		// three low and three high: low wins the tie
		{mission.Combination{1, 2, 3, 31, 32, 33}, []mission.ComboTag{mission.ComboLowHeavy}},
		{mission.Combination{1, 2, 11, 12, 31, 32}, []mission.ComboTag{mission.ComboMixed}},
		{mission.Combination{11, 12, 13, 31, 32, 33}, []mission.ComboTag{mission.ComboMidHeavy}},
		{mission.Combination{1, 11, 31, 40, 41, 42}, []mission.ComboTag{mission.ComboHighHeavy}},
		{mission.Combination{1, 11, 21, 31, 41, 2}, []mission.ComboTag{mission.ComboEndDigitConcentrated}},
		{mission.Combination{7, 14, 21, 28, 35, 42}, []mission.ComboTag{mission.ComboEndDigitVaried, mission.ComboNonConsecutive}},
	}
	for _, tc := range cases {
		got := Extract(tc.combo)
		for _, w := range tc.want {
			if !got.Has(w) {
				t.Fatalf("%v: expected %q in %v", tc.combo, w, got)
			}
		}
	}
}
