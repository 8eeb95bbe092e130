package mission

import (
	"encoding/json"
	"time"
)

// PhraseRefs are opaque phrase ids from the caller's history feature. They are passed through unchanged.
type PhraseRefs struct {
	A *string `json:"phraseAId,omitempty"`
	B *string `json:"phraseBId,omitempty"`
	C *string `json:"phraseCId,omitempty"`
}

// InputSnapshot is the provenance record serialized into Mission.InputTags.
// It never carries the birth date or the zodiac sign.
type InputSnapshot struct {
	ComboTags []string `json:"combo_tags"`
	AlignTags []string `json:"align_tags"`
	Tone      string   `json:"tone"`
}

// JSON returns the stable serialized form. Tag order is preserved as given.
func (s InputSnapshot) JSON() string {
	if s.ComboTags == nil {
		s.ComboTags = []string{}
	}
	if s.AlignTags == nil {
		s.AlignTags = []string{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Mission is the personalized text artifact returned to the caller.
type Mission struct {
	Text         string
	Tone         Tone
	InputTags    string
	CreatedAt    time.Time
	TokenUsage   *int
	CostEstimate *float64
	ZodiacSign   *ZodiacSign
	PhraseRefs   PhraseRefs
}
