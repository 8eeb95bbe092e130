package promptstyle

import "strings"

const marker = "LOTTOGUIDE_PROMPT_STYLE_V1"

// ApplySystem prepends the product voice block to a system prompt. It is idempotent.
func ApplySystem(system string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou write short, light-hearted daily missions for a lottery number guide.")
	b.WriteString("\nA mission is one or two sentences suggesting a small, pleasant action.")
	b.WriteString("\nNever promise, predict or imply winning, and never mention odds or probabilities.")
	b.WriteString("\nDo not use words such as guaranteed, certain, definitely or absolutely.")
	b.WriteString("\nOutput only the mission text, without quotes, lists or commentary.")
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
