// Package align maps a zodiac sign to the mood and element tags used for template compatibility.
package align

import "github.com/appback/lottoguide-api/internal/domain/mission"

// signTags holds 1..3 tags per sign. The element tag always comes first.
var signTags = map[mission.ZodiacSign]mission.AlignTags{
	mission.Aries:       {mission.AlignFire, mission.AlignBold, mission.AlignDynamic},
	mission.Taurus:      {mission.AlignEarth, mission.AlignStable, mission.AlignGentle},
	mission.Gemini:      {mission.AlignAir, mission.AlignDynamic, mission.AlignTransition},
	mission.Cancer:      {mission.AlignWater, mission.AlignGentle, mission.AlignLonely},
	mission.Leo:         {mission.AlignFire, mission.AlignBold},
	mission.Virgo:       {mission.AlignEarth, mission.AlignPractical, mission.AlignStable},
	mission.Libra:       {mission.AlignAir, mission.AlignGentle, mission.AlignStable},
	mission.Scorpio:     {mission.AlignWater, mission.AlignMystical, mission.AlignBold},
	mission.Sagittarius: {mission.AlignFire, mission.AlignDynamic, mission.AlignTransition},
	mission.Capricorn:   {mission.AlignEarth, mission.AlignPractical, mission.AlignLonely},
	mission.Aquarius:    {mission.AlignAir, mission.AlignMystical, mission.AlignTransition},
	mission.Pisces:      {mission.AlignWater, mission.AlignMystical, mission.AlignGentle},
}

// comboMoods folds the shape of a combination into extra mood tags.
var comboMoods = map[mission.ComboTag]mission.AlignTag{
	mission.ComboConsecutive:          mission.AlignDynamic,
	mission.ComboBalanced:             mission.AlignStable,
	mission.ComboSumHigh:              mission.AlignBold,
	mission.ComboSumLow:               mission.AlignGentle,
	mission.ComboEndDigitConcentrated: mission.AlignMystical,
}

// Derive returns the static tag set for sign. A nil sign yields an empty set.
func Derive(sign *mission.ZodiacSign) mission.AlignTags {
	if sign == nil {
		return mission.AlignTags{}
	}
	tags, ok := signTags[*sign]
	if !ok {
		return mission.AlignTags{}
	}
	return append(mission.AlignTags(nil), tags...)
}

// Element returns the element tag of sign, if any.
func Element(sign *mission.ZodiacSign) (mission.AlignTag, bool) {
	tags := Derive(sign)
	if len(tags) == 0 {
		return "", false
	}
	return tags[0], true
}

// DeriveWithCombo extends Derive with moods implied by the combo tags.
// Sign tags keep their position; combo moods follow in combo-tag order without duplicates.
func DeriveWithCombo(sign *mission.ZodiacSign, combo mission.ComboTags) mission.AlignTags {
	out := Derive(sign)
	for _, c := range combo {
		mood, ok := comboMoods[c]
		if !ok || out.Has(mood) {
			continue
		}
		out = append(out, mood)
	}
	return out
}
