// Package combo derives statistical feature tags from a six-number combination.
package combo

import (
	"sort"

	"github.com/appback/lottoguide-api/internal/domain/mission"
)

// HeavyCount is how many members of one parity class make the combination "heavy" in it.
const HeavyCount = 4

// Sum thresholds, inclusive.
const (
	SumHighMin = 150
	SumLowMax  = 100
)

// EndDigitVariedMin is the number of distinct last digits needed for end_digit_varied.
const EndDigitVariedMin = 5

type band struct {
	lo, hi int
	tag    mission.ComboTag
}

// BandHeavyCount is the member count that makes a band dominant.
const BandHeavyCount = 3

// Bands are checked in order; the first dominant band wins.
var bands = []band{
	{lo: 1, hi: 10, tag: mission.ComboLowHeavy},
	{lo: 11, hi: 30, tag: mission.ComboMidHeavy},
	{lo: 31, hi: 45, tag: mission.ComboHighHeavy},
}

type rule func(sorted []int) mission.ComboTag

// rules run in group order: parity, sum, consecutive, range, end digit.
var rules = []rule{parity, sum, consecutive, numberRange, endDigit}

// Extract returns one tag per group for a valid combination, or an empty set otherwise.
func Extract(c mission.Combination) mission.ComboTags {
	if !c.Valid() {
		return mission.ComboTags{}
	}
	sorted := append([]int(nil), c...)
	sort.Ints(sorted)

	out := make(mission.ComboTags, 0, len(rules))
	for _, r := range rules {
		out = append(out, r(sorted))
	}
	return out
}

func parity(nums []int) mission.ComboTag {
	odd := 0
	for _, n := range nums {
		if n%2 != 0 {
			odd++
		}
	}
	even := len(nums) - odd
	switch {
	case odd >= HeavyCount:
		return mission.ComboOddHeavy
	case even >= HeavyCount:
		return mission.ComboEvenHeavy
	default:
		return mission.ComboBalanced
	}
}

func sum(nums []int) mission.ComboTag {
	total := 0
	for _, n := range nums {
		total += n
	}
	switch {
	case total >= SumHighMin:
		return mission.ComboSumHigh
	case total <= SumLowMax:
		return mission.ComboSumLow
	default:
		return mission.ComboSumMid
	}
}

func consecutive(sorted []int) mission.ComboTag {
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			return mission.ComboConsecutive
		}
	}
	return mission.ComboNonConsecutive
}

func numberRange(nums []int) mission.ComboTag {
	counts := make([]int, len(bands))
	for _, n := range nums {
		for i, b := range bands {
			if n >= b.lo && n <= b.hi {
				counts[i]++
				break
			}
		}
	}
	for i, b := range bands {
		if counts[i] >= BandHeavyCount {
			return b.tag
		}
	}
	return mission.ComboMixed
}

func endDigit(nums []int) mission.ComboTag {
	digits := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		digits[n%10] = struct{}{}
	}
	if len(digits) >= EndDigitVariedMin {
		return mission.ComboEndDigitVaried
	}
	return mission.ComboEndDigitConcentrated
}
