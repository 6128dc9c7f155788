package models

// Bidder is a single entity submitting a bid within one tender analysis run.
type Bidder struct {
	BidderID  string   `json:"bidderId"`
	Name      string   `json:"name"`
	BidAmount float64  `json:"bidAmount"`
	Documents []string `json:"documents"` // doc_handle values owned by this bidder
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
}

// Document is a single extracted document keyed by (bidderId, handle) in
// AnalysisState.ExtractedText.
type Document struct {
	BidderID string `json:"bidderId"`
	Handle   string `json:"handle"`
	Text     string `json:"text"`
}

// Signal type and severity vocabularies.
const (
	SignalPriceAnomaly       = "price_anomaly"
	SignalDocumentSimilarity = "document_similarity"
	SignalStylometry         = "stylometry"
	SignalRelationshipGraph  = "relationship_network"

	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// RiskSignal is an immutable, evidence-bearing finding emitted by one engine.
// Signals are append-only within a run: once emitted they are never mutated
// or removed.
type RiskSignal struct {
	ID              string                 `json:"id"`
	SignalType      string                 `json:"signalType"`
	Severity        string                 `json:"severity"`
	Score           float64                `json:"score"`
	Description     string                 `json:"description"`
	Evidence        map[string]interface{} `json:"evidence,omitempty"`
	AffectedBidders []string               `json:"affectedBidders"`
}
