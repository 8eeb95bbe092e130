package observability

// CostRates are USD prices per 1K tokens.
type CostRates struct {
	InputPer1K  float64
	OutputPer1K float64
}

func (r CostRates) Enabled() bool {
	return r.InputPer1K > 0 || r.OutputPer1K > 0
}

// EstimateCost prices a call. It returns nil when no rate is configured or no tokens were used.
func EstimateCost(inputTokens, outputTokens int, rates CostRates) *float64 {
	if !rates.Enabled() || (inputTokens <= 0 && outputTokens <= 0) {
		return nil
	}
	cost := 0.0
	if inputTokens > 0 {
		cost += (float64(inputTokens) / 1000.0) * rates.InputPer1K
	}
	if outputTokens > 0 {
		cost += (float64(outputTokens) / 1000.0) * rates.OutputPer1K
	}
	return &cost
}
