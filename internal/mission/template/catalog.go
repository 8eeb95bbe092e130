// Package template loads the mission template catalog and picks style hints by tag compatibility.
package template

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/appback/lottoguide-api/internal/domain/mission"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultTemplate is used when nothing in the catalog is compatible.
var DefaultTemplate = mission.MissionTemplate{
	ID:       "default",
	Text:     "오늘의 조언은 재미로만 가볍게 가져가 주세요. 마음이 끌리는 쪽이 정답일 때도 있거든요.",
	Category: mission.CategoryDefault,
	Theme:    mission.CategoryDefault,
	Tone:     mission.ToneFriendly,
	Weight:   1,
}

// Catalog is an immutable set of templates.
type Catalog struct {
	Version   int                       `yaml:"version"`
	Templates []mission.MissionTemplate `yaml:"templates"`
}

// LoadCatalog reads path, or the embedded catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	return ParseCatalog(b)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded template catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}
	seen := map[string]bool{}
	var errs []error
	for i := range c.Templates {
		t := &c.Templates[i]
		t.Text = strings.TrimSpace(t.Text)
		t.Category = strings.ToLower(strings.TrimSpace(t.Category))
		if t.ID == "" {
			t.ID = fmt.Sprintf("tpl-%03d", i+1)
		}
		if t.Weight <= 0 {
			t.Weight = 1
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("template %s: duplicate id", t.ID))
		}
		seen[t.ID] = true
		if err := validate(*t); err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", t.ID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &c, nil
}

func validate(t mission.MissionTemplate) error {
	if t.Text == "" {
		return errors.New("text required")
	}
	switch {
	case t.IsZodiac():
		if _, ok := mission.ParseZodiacSign(strings.TrimPrefix(t.Category, mission.CategoryZodiacPrefix)); !ok {
			return fmt.Errorf("unknown zodiac category %q", t.Category)
		}
	case t.Category == mission.CategoryElement, t.Category == mission.CategoryPattern, t.Category == mission.CategoryDefault:
	default:
		return fmt.Errorf("unknown category %q", t.Category)
	}
	if t.Tone != "" && !t.Tone.Valid() {
		return fmt.Errorf("unknown tone %q", t.Tone)
	}
	for _, a := range t.AlignTags {
		if !a.Valid() {
			return fmt.Errorf("unknown align tag %q", a)
		}
	}
	for _, c := range t.ComboTags {
		if !c.Valid() {
			return fmt.Errorf("unknown combo tag %q", c)
		}
	}
	return nil
}

// ByCategory returns the templates of one category in catalog order.
func (c *Catalog) ByCategory(category string) []mission.MissionTemplate {
	var out []mission.MissionTemplate
	for _, t := range c.Templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
