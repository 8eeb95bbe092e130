// Package stats computes per-number and combination-pattern statistics over recent draws.
package stats

import (
	"sort"
	"time"

	"github.com/appback/lottoguide-api/internal/domain/draws"
	"github.com/appback/lottoguide-api/internal/domain/mission"
	"github.com/appback/lottoguide-api/internal/mission/combo"
)

// PatternStats is the combo-tag distribution over the most recent WindowSize draws.
type PatternStats struct {
	WindowSize    int            `json:"window_size"`
	Draws         int            `json:"draws"`
	ThroughDrawNo int            `json:"through_draw_no"`
	TagCounts     map[string]int `json:"tag_counts"`
	ComputedAt    time.Time      `json:"computed_at"`
}

// Share returns the fraction of draws in the window that carried tag.
func (p PatternStats) Share(tag mission.ComboTag) float64 {
	if p.Draws == 0 {
		return 0
	}
	return float64(p.TagCounts[string(tag)]) / float64(p.Draws)
}

// window returns up to size draws, newest first, without mutating the input.
func window(size int, ds []*draws.Draw) []*draws.Draw {
	out := make([]*draws.Draw, 0, len(ds))
	for _, d := range ds {
		if d != nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrawNo > out[j].DrawNo })
	if size >= 0 && len(out) > size {
		out = out[:size]
	}
	return out
}

// ComputeNumberMetrics returns one metric per number 1..45 for the window.
// Overdue is the number of draws since the number last appeared; a number absent from the
// window is overdue by the window length. It returns nil when there are no draws.
func ComputeNumberMetrics(windowSize int, ds []*draws.Draw) []*draws.NumberMetric {
	recent := window(windowSize, ds)
	if len(recent) == 0 {
		return nil
	}
	latest := recent[0].DrawNo

	out := make([]*draws.NumberMetric, 0, mission.MaxNumber)
	byNumber := make(map[int]*draws.NumberMetric, mission.MaxNumber)
	for n := mission.MinNumber; n <= mission.MaxNumber; n++ {
		m := &draws.NumberMetric{
			WindowSize:    windowSize,
			Number:        n,
			Overdue:       len(recent),
			ThroughDrawNo: latest,
		}
		byNumber[n] = m
		out = append(out, m)
	}

	// Newest first, so the first hit is the last appearance.
	for idx, d := range recent {
		for _, n := range d.Numbers() {
			m, ok := byNumber[n]
			if !ok {
				continue
			}
			m.Frequency++
			if m.LastSeenDrawNo == nil {
				no := d.DrawNo
				m.LastSeenDrawNo = &no
				m.Overdue = idx
			}
		}
	}
	return out
}

// ComputePatternStats counts combo tags across the window.
func ComputePatternStats(windowSize int, ds []*draws.Draw, now time.Time) PatternStats {
	recent := window(windowSize, ds)
	ps := PatternStats{
		WindowSize: windowSize,
		Draws:      len(recent),
		TagCounts:  map[string]int{},
		ComputedAt: now.UTC(),
	}
	if len(recent) > 0 {
		ps.ThroughDrawNo = recent[0].DrawNo
	}
	for _, d := range recent {
		for _, tag := range combo.Extract(d.Numbers()) {
			ps.TagCounts[string(tag)]++
		}
	}
	return ps
}
