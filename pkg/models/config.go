package models

// Config carries the tunable thresholds named in the external-interface
// table. All fields have the defaults below; callers override via
// pkg/analysis.Option or environment variables read at cmd/ startup.
type Config struct {
	PriceOutlierThreshold   float64 // price.outlier_threshold, z-score cutoff
	PriceCoverMargin        float64 // price.cover_margin, m
	PriceCoverGap           float64 // price.cover_gap, 15% gap threshold
	SemanticThreshold       float64 // semantic.threshold
	SemanticHighRiskThreshold float64 // semantic.high_risk_threshold
	StylometryThreshold     float64 // stylometry.threshold
	MinBiddersForCollusion  int     // min_bidders_for_collusion
	MinCliqueSize           int     // min_clique_size

	// SummarizerModel is a model-name hint carried in Config only; the
	// pipeline does not pass it to LLMSummarize, and it has no behavior of
	// its own.
	SummarizerModel string
}

// DefaultConfig returns the configuration defaults named in the external
// interfaces table.
func DefaultConfig() Config {
	return Config{
		PriceOutlierThreshold:     2.0,
		PriceCoverMargin:          0.05,
		PriceCoverGap:             0.15,
		SemanticThreshold:         0.70,
		SemanticHighRiskThreshold: 0.85,
		StylometryThreshold:       0.80,
		MinBiddersForCollusion:    2,
		MinCliqueSize:             3,
		SummarizerModel:           "",
	}
}
