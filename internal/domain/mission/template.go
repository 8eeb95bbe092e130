package mission

import "strings"

// Template categories. Zodiac categories are "zodiac_<sign>".
const (
	CategoryZodiacPrefix = "zodiac_"
	CategoryElement      = "element"
	CategoryPattern      = "pattern"
	CategoryDefault      = "default"
)

// ZodiacCategory returns the template category reserved for z.
func ZodiacCategory(z ZodiacSign) string { return CategoryZodiacPrefix + string(z) }

// MissionTemplate is a read-only style hint for generation.
type MissionTemplate struct {
	ID        string     `yaml:"id" json:"id"`
	Text      string     `yaml:"text" json:"text"`
	Category  string     `yaml:"category" json:"category"`
	Theme     string     `yaml:"theme" json:"theme"`
	Tone      ToneTag    `yaml:"tone" json:"tone"`
	PlaceHint *string    `yaml:"place_hint,omitempty" json:"placeHint,omitempty"`
	TimeHint  *string    `yaml:"time_hint,omitempty" json:"timeHint,omitempty"`
	AlignTags []AlignTag `yaml:"align_tags,omitempty" json:"alignTags,omitempty"`
	AvoidTags []string   `yaml:"avoid_tags,omitempty" json:"avoidTags,omitempty"`
	ComboTags []ComboTag `yaml:"combo_tags,omitempty" json:"comboTags,omitempty"`
	Weight    int        `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// IsZodiac reports whether the template belongs to a zodiac category.
func (t MissionTemplate) IsZodiac() bool {
	return strings.HasPrefix(t.Category, CategoryZodiacPrefix)
}
