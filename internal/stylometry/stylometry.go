// Package stylometry extracts per-bidder linguistic style features and
// compares them across bidders for authorship-similarity signals.
package stylometry

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

const punctuation = ".,!?;:"

// Engine runs the stylometric comparison.
type Engine struct {
	cfg      models.Config
	features providers.LinguisticFeatures // nil triggers the fallback path
}

// New creates a stylometry engine. features may be nil, which drives the
// fallback tokenizer path specified in spec.md §4.4.
func New(cfg models.Config, features providers.LinguisticFeatures) *Engine {
	return &Engine{cfg: cfg, features: features}
}

// Analyze concatenates each bidder's documents and compares the resulting
// 8-component feature vectors pairwise.
func (e *Engine) Analyze(ctx context.Context, extractedText map[string]map[string]string, bidderDocOrder map[string][]string) (models.StylometryAnalysisResult, []models.RiskSignal) {
	bidderIDs := make([]string, 0, len(extractedText))
	for id := range extractedText {
		bidderIDs = append(bidderIDs, id)
	}
	sort.Strings(bidderIDs)

	if len(bidderIDs) < 2 {
		log.Printf("[StylometryEngine] insufficient bidders (%d) for style comparison", len(bidderIDs))
		return models.StylometryAnalysisResult{InsufficientData: true}, nil
	}

	features := make(map[string][]float64, len(bidderIDs))
	for _, bidderID := range bidderIDs {
		text := concatenateDocs(extractedText[bidderID], bidderDocOrder[bidderID])
		features[bidderID] = e.extractFeatures(ctx, text)
	}

	threshold := e.cfg.StylometryThreshold
	if threshold == 0 {
		threshold = 0.80
	}

	var pairs []models.StylePair
	var signals []models.RiskSignal

	for i := 0; i < len(bidderIDs); i++ {
		for j := i + 1; j < len(bidderIDs); j++ {
			score := cosineSimilarity(features[bidderIDs[i]], features[bidderIDs[j]])
			if score <= threshold {
				continue
			}
			pairs = append(pairs, models.StylePair{BidderI: bidderIDs[i], BidderJ: bidderIDs[j], Score: score})
			signals = append(signals, models.RiskSignal{
				ID:              uuid.NewString(),
				SignalType:      models.SignalStylometry,
				Severity:        notify.PairSeverity(score, 0.85),
				Score:           score,
				Description:     "Matching writing style across bidders",
				Evidence:        map[string]interface{}{"bidderI": bidderIDs[i], "bidderJ": bidderIDs[j], "score": score},
				AffectedBidders: []string{bidderIDs[i], bidderIDs[j]},
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairs[i].BidderI+pairs[i].BidderJ < pairs[j].BidderI+pairs[j].BidderJ
	})

	log.Printf("[StylometryEngine] %d bidders compared, %d similar pairs", len(bidderIDs), len(pairs))
	return models.StylometryAnalysisResult{Features: features, Pairs: pairs}, signals
}

// concatenateDocs space-joins a bidder's documents in their original
// order.
func concatenateDocs(byHandle map[string]string, order []string) string {
	if len(order) == 0 {
		// no declared order: join in sorted handle order so the result is
		// deterministic across runs
		handles := make([]string, 0, len(byHandle))
		for h := range byHandle {
			handles = append(handles, h)
		}
		sort.Strings(handles)
		texts := make([]string, 0, len(handles))
		for _, h := range handles {
			texts = append(texts, byHandle[h])
		}
		return strings.Join(texts, " ")
	}
	texts := make([]string, 0, len(order))
	for _, handle := range order {
		if t, ok := byHandle[handle]; ok {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}

// extractFeatures produces the eight-component vector described in
// spec.md §4.4. Items 1-4 always come from the simple tokenizer
// (whitespace split, sentence split on '.', the punctuation set
// ".,!?;:"). With a LinguisticFeatures provider, items 5-8 come from it
// (zero if it returns an error); without one, items 5-8 are zero.
func (e *Engine) extractFeatures(ctx context.Context, text string) []float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return make([]float64, 8)
	}

	var totalLen int
	var wordTokens int
	for _, t := range tokens {
		if isPunctOnly(t) {
			continue
		}
		totalLen += len([]rune(t))
		wordTokens++
	}
	avgWordLen := 0.0
	if wordTokens > 0 {
		avgWordLen = float64(totalLen) / float64(wordTokens)
	}

	sentences := strings.Split(text, ".")
	nonEmptySentences := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			nonEmptySentences++
		}
	}
	if nonEmptySentences == 0 {
		nonEmptySentences = 1
	}
	avgSentenceLen := float64(len(tokens)) / float64(nonEmptySentences)

	unique := make(map[string]bool)
	for _, t := range tokens {
		unique[strings.ToLower(t)] = true
	}
	lexicalDiversity := float64(len(unique)) / float64(len(tokens))

	punctTokens := 0
	for _, t := range tokens {
		if isPunctOnly(t) {
			punctTokens++
		}
	}
	punctFreq := float64(punctTokens) / float64(len(tokens))

	var stopword, noun, verb, adj float64
	if e.features != nil {
		var err error
		stopword, noun, verb, adj, err = e.features.LinguisticFeatures(ctx, text)
		if err != nil {
			stopword, noun, verb, adj = 0, 0, 0, 0
		}
	}

	return []float64{avgWordLen, avgSentenceLen, lexicalDiversity, punctFreq, stopword, noun, verb, adj}
}

func isPunctOnly(token string) bool {
	for _, r := range token {
		if !strings.ContainsRune(punctuation, r) {
			return false
		}
	}
	return len(token) > 0
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
