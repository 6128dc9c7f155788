// Package notify holds ambient alerting concerns shared by the analysis
// engines: severity-banding helpers and the webhook-backed AlertManager.
package notify

// PriceSeverity maps a PriceEngine composite score to a severity band:
// high above 0.7, medium above 0.4, otherwise low.
func PriceSeverity(score float64) string {
	switch {
	case score > 0.7:
		return "high"
	case score > 0.4:
		return "medium"
	default:
		return "low"
	}
}

// PairSeverity maps a pairwise similarity score to high/medium given the
// engine's own high-risk cutoff (SemanticEngine uses 0.90, StylometryEngine
// uses 0.85).
func PairSeverity(score, highThreshold float64) string {
	if score > highThreshold {
		return "high"
	}
	return "medium"
}

// GroupSeverity maps a relationship high-risk group's size to high/medium:
// high at size 4 or more, medium otherwise.
func GroupSeverity(size int) string {
	if size >= 4 {
		return "high"
	}
	return "medium"
}
