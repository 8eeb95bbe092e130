package mission

// ComboTag describes one statistical facet of a six-number combination.
type ComboTag string

const (
	ComboOddHeavy  ComboTag = "odd_heavy"
	ComboEvenHeavy ComboTag = "even_heavy"
	ComboBalanced  ComboTag = "balanced"

	ComboSumHigh ComboTag = "sum_high"
	ComboSumMid  ComboTag = "sum_mid"
	ComboSumLow  ComboTag = "sum_low"

	ComboConsecutive    ComboTag = "consecutive"
	ComboNonConsecutive ComboTag = "non_consecutive"

	ComboLowHeavy  ComboTag = "low_heavy"
	ComboMidHeavy  ComboTag = "mid_heavy"
	ComboHighHeavy ComboTag = "high_heavy"
	ComboMixed     ComboTag = "mixed"

	ComboEndDigitVaried       ComboTag = "end_digit_varied"
	ComboEndDigitConcentrated ComboTag = "end_digit_concentrated"
)

// ComboGroup names the mutually exclusive group a ComboTag belongs to.
type ComboGroup string

const (
	GroupParity      ComboGroup = "parity"
	GroupSum         ComboGroup = "sum"
	GroupConsecutive ComboGroup = "consecutive"
	GroupRange       ComboGroup = "range"
	GroupEndDigit    ComboGroup = "end_digit"
)

// ComboGroups lists the groups in the order tags are emitted.
var ComboGroups = []ComboGroup{GroupParity, GroupSum, GroupConsecutive, GroupRange, GroupEndDigit}

var comboGroupOf = map[ComboTag]ComboGroup{
	ComboOddHeavy:             GroupParity,
	ComboEvenHeavy:            GroupParity,
	ComboBalanced:             GroupParity,
	ComboSumHigh:              GroupSum,
	ComboSumMid:               GroupSum,
	ComboSumLow:               GroupSum,
	ComboConsecutive:          GroupConsecutive,
	ComboNonConsecutive:       GroupConsecutive,
	ComboLowHeavy:             GroupRange,
	ComboMidHeavy:             GroupRange,
	ComboHighHeavy:            GroupRange,
	ComboMixed:                GroupRange,
	ComboEndDigitVaried:       GroupEndDigit,
	ComboEndDigitConcentrated: GroupEndDigit,
}

// Group returns the tag's group, or "" for an unknown tag.
func (t ComboTag) Group() ComboGroup { return comboGroupOf[t] }

func (t ComboTag) Valid() bool {
	_, ok := comboGroupOf[t]
	return ok
}

// AllComboTags returns every known ComboTag grouped in emission order.
func AllComboTags() []ComboTag {
	return []ComboTag{
		ComboOddHeavy, ComboEvenHeavy, ComboBalanced,
		ComboSumHigh, ComboSumMid, ComboSumLow,
		ComboConsecutive, ComboNonConsecutive,
		ComboLowHeavy, ComboMidHeavy, ComboHighHeavy, ComboMixed,
		ComboEndDigitVaried, ComboEndDigitConcentrated,
	}
}

// ComboTags is an ordered tag set. Extraction emits at most one tag per group.
type ComboTags []ComboTag

func (ts ComboTags) Has(tag ComboTag) bool {
	for _, t := range ts {
		if t == tag {
			return true
		}
	}
	return false
}

func (ts ComboTags) Strings() []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, string(t))
	}
	return out
}

// AlignTag is an element or mood quality used to match stylistically compatible content.
type AlignTag string

const (
	AlignWater      AlignTag = "water"
	AlignFire       AlignTag = "fire"
	AlignAir        AlignTag = "air"
	AlignEarth      AlignTag = "earth"
	AlignLonely     AlignTag = "lonely"
	AlignTransition AlignTag = "transition"
	AlignStable     AlignTag = "stable"
	AlignBold       AlignTag = "bold"
	AlignGentle     AlignTag = "gentle"
	AlignDynamic    AlignTag = "dynamic"
	AlignMystical   AlignTag = "mystical"
	AlignPractical  AlignTag = "practical"
)

var knownAlignTags = map[AlignTag]struct{}{
	AlignWater: {}, AlignFire: {}, AlignAir: {}, AlignEarth: {},
	AlignLonely: {}, AlignTransition: {}, AlignStable: {}, AlignBold: {},
	AlignGentle: {}, AlignDynamic: {}, AlignMystical: {}, AlignPractical: {},
}

func (t AlignTag) Valid() bool {
	_, ok := knownAlignTags[t]
	return ok
}

// AlignTags is an ordered set of AlignTag values.
type AlignTags []AlignTag

func (ts AlignTags) Has(tag AlignTag) bool {
	for _, t := range ts {
		if t == tag {
			return true
		}
	}
	return false
}

func (ts AlignTags) Strings() []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, string(t))
	}
	return out
}

// ToneTag is the rhetorical style of a template candidate.
type ToneTag string

const (
	ToneTarot    ToneTag = "tarot"
	ToneFortune  ToneTag = "fortune"
	ToneAdvice   ToneTag = "advice"
	TonePoetic   ToneTag = "poetic"
	ToneFriendly ToneTag = "friendly"
)

func (t ToneTag) Valid() bool {
	switch t {
	case ToneTarot, ToneFortune, ToneAdvice, TonePoetic, ToneFriendly:
		return true
	default:
		return false
	}
}

// Tone is the register of a generated mission. Only ToneLight is supported today.
type Tone string

const ToneLight Tone = "light"
