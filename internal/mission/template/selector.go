package template

import (
	"sort"

	"github.com/appback/lottoguide-api/internal/domain/mission"
)

// Request carries the tags a template must be compatible with.
type Request struct {
	Sign      *mission.ZodiacSign
	AlignTags mission.AlignTags
	ComboTags mission.ComboTags
	// Tone is an optional preference; it only affects ranking.
	Tone mission.ToneTag
}

// Score weights.
const (
	scoreZodiac = 4
	scoreAlign  = 2
	scoreCombo  = 1
	scoreTone   = 1
)

type Selector struct {
	catalog *Catalog
}

func NewSelector(c *Catalog) *Selector {
	if c == nil {
		c = &Catalog{}
	}
	return &Selector{catalog: c}
}

// Select returns up to limit compatible templates. Zodiac templates for the sign come first,
// then element templates, then number-pattern templates. With nothing compatible it returns
// DefaultTemplate alone. The result is deterministic for a given catalog and request.
func (s *Selector) Select(req Request, limit int) []mission.MissionTemplate {
	if limit <= 0 {
		limit = 1
	}
	var tiers [][]mission.MissionTemplate
	if req.Sign != nil {
		tiers = append(tiers, s.catalog.ByCategory(mission.ZodiacCategory(*req.Sign)))
	}
	tiers = append(tiers,
		s.catalog.ByCategory(mission.CategoryElement),
		s.catalog.ByCategory(mission.CategoryPattern),
	)

	out := make([]mission.MissionTemplate, 0, limit)
	for _, tier := range tiers {
		for _, t := range rank(tier, req) {
			if len(out) == limit {
				return out
			}
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []mission.MissionTemplate{DefaultTemplate}
	}
	return out
}

// Compatible reports whether t may be used for req: none of its avoid tags are present, and
// declared align or combo tags each share at least one member with the request.
func Compatible(t mission.MissionTemplate, req Request) bool {
	present := make(map[string]bool, len(req.AlignTags)+len(req.ComboTags))
	for _, a := range req.AlignTags {
		present[string(a)] = true
	}
	for _, c := range req.ComboTags {
		present[string(c)] = true
	}
	for _, avoid := range t.AvoidTags {
		if present[avoid] {
			return false
		}
	}
	if len(t.AlignTags) > 0 && alignOverlap(t, req) == 0 {
		return false
	}
	if len(t.ComboTags) > 0 && comboOverlap(t, req) == 0 {
		return false
	}
	return true
}

type scored struct {
	t     mission.MissionTemplate
	score int
}

func rank(tier []mission.MissionTemplate, req Request) []mission.MissionTemplate {
	cands := make([]scored, 0, len(tier))
	for _, t := range tier {
		if !Compatible(t, req) {
			continue
		}
		cands = append(cands, scored{t: t, score: score(t, req)})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.t.Weight != b.t.Weight {
			return a.t.Weight > b.t.Weight
		}
		if a.t.Text != b.t.Text {
			return a.t.Text < b.t.Text
		}
		return a.t.ID < b.t.ID
	})
	out := make([]mission.MissionTemplate, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.t)
	}
	return out
}

func score(t mission.MissionTemplate, req Request) int {
	s := alignOverlap(t, req)*scoreAlign + comboOverlap(t, req)*scoreCombo
	if req.Sign != nil && t.Category == mission.ZodiacCategory(*req.Sign) {
		s += scoreZodiac
	}
	if req.Tone != "" && t.Tone == req.Tone {
		s += scoreTone
	}
	return s
}

func alignOverlap(t mission.MissionTemplate, req Request) int {
	n := 0
	for _, a := range t.AlignTags {
		if req.AlignTags.Has(a) {
			n++
		}
	}
	return n
}

func comboOverlap(t mission.MissionTemplate, req Request) int {
	n := 0
	for _, c := range t.ComboTags {
		if req.ComboTags.Has(c) {
			n++
		}
	}
	return n
}
