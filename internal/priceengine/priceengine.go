// Package priceengine implements statistical anomaly and cover-bid
// detection over a tender's bid amounts.
package priceengine

import (
	"log"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/rawblock/tenderguard/internal/notify"
	"github.com/rawblock/tenderguard/pkg/models"
)

// Engine runs the price-anomaly analysis.
type Engine struct {
	cfg models.Config
}

// New creates a price engine bound to the given configuration.
func New(cfg models.Config) *Engine {
	return &Engine{cfg: cfg}
}

// bidderPrice pairs a bidder ID with its bid, kept together through
// sorting so outlier/cover-bid output can reference the original ID.
type bidderPrice struct {
	BidderID string
	Price    float64
}

// Analyze runs outlier detection, cover-bid detection, and the
// round-number heuristic over bids, returning the result slot and at most
// one price_anomaly signal.
func (e *Engine) Analyze(bids map[string]float64) (models.PriceAnalysisResult, []models.RiskSignal) {
	minBidders := e.cfg.MinBiddersForCollusion
	if minBidders == 0 {
		minBidders = 2
	}
	// Outlier statistics need at least 3 points to be meaningful regardless
	// of the configured collusion floor, but never run on fewer bidders
	// than the operator considers a valid collusion pool.
	required := minBidders
	if required < 3 {
		required = 3
	}
	if len(bids) < required {
		log.Printf("[PriceEngine] insufficient bids (%d, need %d) for outlier analysis", len(bids), required)
		return models.PriceAnalysisResult{InsufficientData: true}, nil
	}

	prices := make([]bidderPrice, 0, len(bids))
	for id, p := range bids {
		prices = append(prices, bidderPrice{BidderID: id, Price: p})
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Price < prices[j].Price })

	values := make([]float64, len(prices))
	for i, bp := range prices {
		values[i] = bp.Price
	}

	mean := meanOf(values)
	stddev := stddevOf(values, mean)
	median := percentile(values, 50)
	cv := 0.0
	if mean != 0 {
		cv = stddev / mean
	}
	q1 := percentile(values, 25)
	q3 := percentile(values, 75)
	iqr := q3 - q1

	var zOutliers, iqrOutliers []string
	threshold := e.cfg.PriceOutlierThreshold
	if threshold == 0 {
		threshold = 2.0
	}
	for _, bp := range prices {
		if stddev > 0 {
			z := math.Abs((bp.Price - mean) / stddev)
			if z > threshold {
				zOutliers = append(zOutliers, bp.BidderID)
			}
		}
		if bp.Price < q1-1.5*iqr || bp.Price > q3+1.5*iqr {
			iqrOutliers = append(iqrOutliers, bp.BidderID)
		}
	}

	var coverPatterns []models.CoverBidPattern
	if len(prices) >= minBidders {
		coverPatterns = e.detectCoverBidding(prices)
	}

	roundRatio := roundNumberRatio(values)

	score := 0.0
	if cv < 0.1 {
		score += 0.3
	}
	if len(coverPatterns) > 0 {
		score += 0.4
	}
	if roundRatio > 0.5 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}

	result := models.PriceAnalysisResult{
		Mean:             mean,
		Median:           median,
		StdDev:           stddev,
		CoefficientOfVar: cv,
		Q1:               q1,
		Q3:               q3,
		IQR:              iqr,
		ZScoreOutliers:   zOutliers,
		IQROutliers:      iqrOutliers,
		CoverBidPatterns: coverPatterns,
		RoundNumberRatio: roundRatio,
		Score:            score,
	}

	if score <= 0 {
		return result, nil
	}

	affected := make([]string, len(prices))
	for i, bp := range prices {
		affected[i] = bp.BidderID
	}

	signal := models.RiskSignal{
		ID:              uuid.NewString(),
		SignalType:      models.SignalPriceAnomaly,
		Severity:        notify.PriceSeverity(score),
		Score:           score,
		Description:     "Bid pricing pattern consistent with collusion indicators",
		Evidence:        map[string]interface{}{"coefficientOfVar": cv, "coverBidPatterns": coverPatterns, "roundNumberRatio": roundRatio},
		AffectedBidders: affected,
	}
	log.Printf("[PriceEngine] emitted price_anomaly signal score=%.2f severity=%s", score, signal.Severity)
	return result, []models.RiskSignal{signal}
}

// detectCoverBidding applies the gate described in spec.md §4.2: for each
// higher bid p_i more than cover_gap above the lowest bid, pair it with
// every other higher bid p_j > p_i within cover_margin of p_i. The gap
// gate applies to i only, never to j (see DESIGN.md Open Question 1).
func (e *Engine) detectCoverBidding(sorted []bidderPrice) []models.CoverBidPattern {
	gap := e.cfg.PriceCoverGap
	if gap == 0 {
		gap = 0.15
	}
	margin := e.cfg.PriceCoverMargin
	if margin == 0 {
		margin = 0.05
	}

	lowest := sorted[0].Price
	var patterns []models.CoverBidPattern
	if lowest <= 0 {
		return patterns
	}

	for i := 1; i < len(sorted); i++ {
		priceGap := (sorted[i].Price - lowest) / lowest
		if priceGap <= gap {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Price == 0 {
				continue
			}
			rel := math.Abs(sorted[j].Price-sorted[i].Price) / sorted[i].Price
			if rel < margin {
				patterns = append(patterns, models.CoverBidPattern{
					BidderI:     sorted[i].BidderID,
					BidderJ:     sorted[j].BidderID,
					PriceI:      sorted[i].Price,
					PriceJ:      sorted[j].Price,
					PercentDiff: rel * 100,
				})
			}
		}
	}
	return patterns
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values))) // population stddev
}

// percentile returns the p-th percentile (0-100) of a sorted slice using
// linear interpolation between order statistics.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// roundNumberRatio is the fraction of bids divisible by 500 or 1000.
func roundNumberRatio(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		amount := int64(math.Round(v))
		if amount%1000 == 0 || amount%500 == 0 {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
