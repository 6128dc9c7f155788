// Package semanticengine computes cross-bidder document similarity from
// embedding vectors supplied by a providers.Embed implementation.
package semanticengine

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rawblock/tenderguard/internal/notify"
	"github.com/rawblock/tenderguard/internal/providers"
	"github.com/rawblock/tenderguard/pkg/models"
)

// Engine runs the document-similarity analysis.
type Engine struct {
	cfg   models.Config
	embed providers.Embed
}

// New creates a semantic engine bound to the given configuration and
// embedding provider.
func New(cfg models.Config, embed providers.Embed) *Engine {
	return &Engine{cfg: cfg, embed: embed}
}

// flattened is one pseudo-identified document ready for embedding.
type flattened struct {
	PseudoID string // "{bidderId}:{handle}"
	BidderID string
	Text     string
}

// Analyze flattens extractedText into pseudo-IDs, embeds them, and emits
// one document_similarity signal per cross-bidder pair at or above the
// configured threshold.
func (e *Engine) Analyze(ctx context.Context, extractedText map[string]map[string]string) (models.SimilarityAnalysisResult, []models.RiskSignal) {
	var docs []flattened
	for bidderID, byHandle := range extractedText {
		for handle, text := range byHandle {
			docs = append(docs, flattened{PseudoID: bidderID + ":" + handle, BidderID: bidderID, Text: text})
		}
	}
	// stable order so embedding rows are deterministic across runs
	sort.Slice(docs, func(i, j int) bool { return docs[i].PseudoID < docs[j].PseudoID })

	if len(docs) < 2 {
		log.Printf("[SemanticEngine] insufficient documents (%d) for similarity analysis", len(docs))
		return models.SimilarityAnalysisResult{InsufficientData: true}, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectors, err := e.embed.Embed(ctx, texts)
	if err != nil || len(vectors) < 2 {
		log.Printf("[SemanticEngine] embed provider unavailable or insufficient: %v", err)
		return models.SimilarityAnalysisResult{InsufficientData: true}, nil
	}

	threshold := e.cfg.SemanticThreshold
	if threshold == 0 {
		threshold = 0.70
	}
	highRiskThreshold := e.cfg.SemanticHighRiskThreshold
	if highRiskThreshold == 0 {
		highRiskThreshold = 0.85
	}

	var pairs []models.SimilarityPair
	var highRisk []models.SimilarityPair
	var signals []models.RiskSignal

	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if docs[i].BidderID == docs[j].BidderID {
				continue // cross-bidder pairs only
			}
			score := cosineSimilarity(vectors[i], vectors[j])
			if score < threshold {
				continue
			}
			pair := models.SimilarityPair{Doc1: docs[i].PseudoID, Doc2: docs[j].PseudoID, Score: score}
			pairs = append(pairs, pair)
			if score > highRiskThreshold {
				highRisk = append(highRisk, pair)
			}

			signals = append(signals, models.RiskSignal{
				ID:              uuid.NewString(),
				SignalType:      models.SignalDocumentSimilarity,
				Severity:        notify.PairSeverity(score, 0.90),
				Score:           score,
				Description:     "Cross-bidder document similarity above threshold",
				Evidence:        map[string]interface{}{"doc1": pair.Doc1, "doc2": pair.Doc2, "score": score},
				AffectedBidders: []string{docs[i].BidderID, docs[j].BidderID},
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairKey(pairs[i]) < pairKey(pairs[j])
	})
	sort.Slice(highRisk, func(i, j int) bool {
		if highRisk[i].Score != highRisk[j].Score {
			return highRisk[i].Score > highRisk[j].Score
		}
		return pairKey(highRisk[i]) < pairKey(highRisk[j])
	})

	result := models.SimilarityAnalysisResult{Pairs: pairs, HighRiskPairs: highRisk}
	log.Printf("[SemanticEngine] %d cross-bidder pairs at/above threshold, %d high-risk", len(pairs), len(highRisk))
	return result, signals
}

func pairKey(p models.SimilarityPair) string {
	return strings.Join([]string{p.Doc1, p.Doc2}, "\x00")
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
