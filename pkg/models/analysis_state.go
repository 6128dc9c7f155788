package models

// PriceAnalysisResult is the PriceEngine's result slot.
type PriceAnalysisResult struct {
	InsufficientData  bool               `json:"insufficientData"`
	Mean              float64            `json:"mean"`
	Median            float64            `json:"median"`
	StdDev            float64            `json:"stdDev"`
	CoefficientOfVar  float64            `json:"coefficientOfVar"`
	Q1                float64            `json:"q1"`
	Q3                float64            `json:"q3"`
	IQR               float64            `json:"iqr"`
	ZScoreOutliers    []string           `json:"zScoreOutliers,omitempty"`
	IQROutliers       []string           `json:"iqrOutliers,omitempty"`
	CoverBidPatterns  []CoverBidPattern  `json:"coverBidPatterns,omitempty"`
	RoundNumberRatio  float64            `json:"roundNumberRatio"`
	Score             float64            `json:"score"`
}

// CoverBidPattern records one (i, j) clustered-high-bid pair found by the
// cover-bidding heuristic.
type CoverBidPattern struct {
	BidderI    string  `json:"bidderI"`
	BidderJ    string  `json:"bidderJ"`
	PriceI     float64 `json:"priceI"`
	PriceJ     float64 `json:"priceJ"`
	PercentDiff float64 `json:"percentDiff"`
}

// SimilarityPair is one cross-bidder document similarity finding.
type SimilarityPair struct {
	Doc1  string  `json:"doc1"`
	Doc2  string  `json:"doc2"`
	Score float64 `json:"score"`
}

// SimilarityAnalysisResult is the SemanticEngine's result slot.
type SimilarityAnalysisResult struct {
	InsufficientData bool             `json:"insufficientData"`
	Pairs            []SimilarityPair `json:"pairs,omitempty"`
	HighRiskPairs    []SimilarityPair `json:"highRiskPairs,omitempty"`
}

// StylePair is one cross-bidder stylometric similarity finding.
type StylePair struct {
	BidderI string  `json:"bidderI"`
	BidderJ string  `json:"bidderJ"`
	Score   float64 `json:"score"`
}

// StylometryAnalysisResult is the StylometryEngine's result slot.
type StylometryAnalysisResult struct {
	InsufficientData bool                   `json:"insufficientData"`
	Features         map[string][]float64   `json:"features,omitempty"` // bidderId -> 8-component vector
	Pairs            []StylePair            `json:"pairs,omitempty"`
}

// HighRiskGroup is one community- or clique-derived suspicious bidder set.
type HighRiskGroup struct {
	Kind    string   `json:"kind"` // "community" | "clique"
	Members []string `json:"members"`
}

// RelationshipAnalysisResult is the RelationshipEngine's result slot.
type RelationshipAnalysisResult struct {
	Graph           *RelationshipGraph `json:"graph"`
	HighRiskGroups  []HighRiskGroup    `json:"highRiskGroups,omitempty"`
	Centrality      map[string]float64 `json:"centrality,omitempty"`
	Density         float64            `json:"density"`
}

// AnalysisState is the single evolving record threaded through the
// pipeline. Once a stage writes its result slot, the slot is never
// overwritten by a later stage; RiskSignals is append-only.
type AnalysisState struct {
	RequestID          string                      `json:"requestId"`
	TenderID           string                      `json:"tenderId"`
	TenderDescription  string                      `json:"tenderDescription"`
	Bidders            []Bidder                    `json:"bidders"`
	ExtractedText      map[string]map[string]string `json:"extractedText"` // bidderId -> handle -> text

	PriceAnalysis        *PriceAnalysisResult        `json:"priceAnalysis,omitempty"`
	SimilarityAnalysis   *SimilarityAnalysisResult   `json:"similarityAnalysis,omitempty"`
	StylometryAnalysis   *StylometryAnalysisResult   `json:"stylometryAnalysis,omitempty"`
	RelationshipAnalysis *RelationshipAnalysisResult `json:"relationshipAnalysis,omitempty"`
	Summary              string                      `json:"summary,omitempty"`

	RiskSignals      []RiskSignal `json:"riskSignals"`
	OverallRiskScore float64      `json:"overallRiskScore"`

	CurrentStep      string `json:"currentStep"`
	AnalysisComplete bool   `json:"analysisComplete"`
	Error            string `json:"error,omitempty"`
}

// SeverityCounts tallies RiskSignals by severity. Computed on demand, not
// stored, since it is fully derivable from RiskSignals.
func (s *AnalysisState) SeverityCounts() map[string]int {
	counts := map[string]int{SeverityLow: 0, SeverityMedium: 0, SeverityHigh: 0}
	for _, sig := range s.RiskSignals {
		counts[sig.Severity]++
	}
	return counts
}
