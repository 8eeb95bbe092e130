// Package policy decides whether generated mission text may be shown to a user.
package policy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultForbiddenPhrases are guarantee and certainty claims the product must never make.
var DefaultForbiddenPhrases = []string{
	"guaranteed",
	"guarantee",
	"100%",
	"definitely",
	"absolutely",
	"sure win",
	"certain to win",
	"risk-free",
	"당첨 보장",
	"확률 증가",
	"확실히",
	"확실",
	"보장",
	"반드시",
	"절대",
}

// Detector finds forbidden phrases by case-insensitive substring containment.
type Detector struct {
	phrases []string
	folded  []string
}

// NewDetector builds a detector over DefaultForbiddenPhrases plus extra.
func NewDetector(extra ...string) *Detector {
	d := &Detector{}
	seen := map[string]bool{}
	for _, p := range append(append([]string(nil), DefaultForbiddenPhrases...), extra...) {
		f := fold(strings.TrimSpace(p))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		d.phrases = append(d.phrases, strings.TrimSpace(p))
		d.folded = append(d.folded, f)
	}
	return d
}

// ContainsForbidden reports whether text contains any forbidden phrase. Empty text never does.
func (d *Detector) ContainsForbidden(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	t := fold(text)
	for _, f := range d.folded {
		if strings.Contains(t, f) {
			return true
		}
	}
	return false
}

// Violations returns every forbidden phrase found in text, in list order.
func (d *Detector) Violations(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	t := fold(text)
	var out []string
	for i, f := range d.folded {
		if strings.Contains(t, f) {
			out = append(out, d.phrases[i])
		}
	}
	return out
}

// Phrases returns a copy of the configured list.
func (d *Detector) Phrases() []string {
	return append([]string(nil), d.phrases...)
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
