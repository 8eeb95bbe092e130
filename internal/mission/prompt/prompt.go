// Package prompt renders the generation request for a mission.
package prompt

import (
	"fmt"
	"strings"

	"github.com/appback/lottoguide-api/internal/domain/mission"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/platform/promptstyle"
)

// Version is bumped whenever the rendered layout changes.
const Version = 1

// Input is everything the prompt may depend on. Rendering is a pure function of it.
type Input struct {
	ComboTags mission.ComboTags
	AlignTags mission.AlignTags
	Tone      mission.Tone
	Templates []mission.MissionTemplate
	Snapshot  string
}

const systemBase = `Write one mission in Korean, between 20 and 120 characters.
Match the requested tone and let the tags colour the mood without naming them.
Use the style hints as inspiration only; do not copy them verbatim.`

// Build renders in into a Prompt.
func Build(in Input) engine.Prompt {
	var b strings.Builder

	b.WriteString("Combination tags: ")
	b.WriteString(joinOrNone(in.ComboTags.Strings()))
	b.WriteString("\nAlignment tags: ")
	b.WriteString(joinOrNone(in.AlignTags.Strings()))

	tone := in.Tone
	if tone == "" {
		tone = mission.ToneLight
	}
	b.WriteString("\nTone: ")
	b.WriteString(string(tone))

	if len(in.Templates) > 0 {
		b.WriteString("\nStyle hints:")
		for i, t := range in.Templates {
			fmt.Fprintf(&b, "\n%d. [%s/%s] %s", i+1, t.Tone, t.Theme, strings.TrimSpace(t.Text))
			if t.PlaceHint != nil && strings.TrimSpace(*t.PlaceHint) != "" {
				b.WriteString(" (place: " + strings.TrimSpace(*t.PlaceHint) + ")")
			}
			if t.TimeHint != nil && strings.TrimSpace(*t.TimeHint) != "" {
				b.WriteString(" (time: " + strings.TrimSpace(*t.TimeHint) + ")")
			}
		}
	}

	if in.Snapshot != "" {
		b.WriteString("\nInput snapshot: ")
		b.WriteString(in.Snapshot)
	}
	fmt.Fprintf(&b, "\nPrompt version: %d", Version)

	return engine.Prompt{
		System:  promptstyle.ApplySystem(systemBase),
		User:    b.String(),
		Version: Version,
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
