// Package analysis is the public library entry point for running one
// tender collusion-risk analysis.
package analysis

import (
	"context"
	"log"

	"github.com/rawblock/tenderguard/internal/pipeline"
	"github.com/rawblock/tenderguard/internal/providers"
	"github.com/rawblock/tenderguard/pkg/models"
)

// Option configures a RunAnalysis call.
type Option func(*options)

type options struct {
	cfg             models.Config
	providers       pipeline.Providers
	onStageComplete func(stage string, signalCount int)
}

func defaultOptions() options {
	return options{
		cfg: models.DefaultConfig(),
		providers: pipeline.Providers{
			ExtractText:        providers.PlainTextExtractor{},
			Embed:              providers.NewHashEmbedder(),
			LinguisticFeatures: nil,
			Summarizer:         providers.NoopSummarizer{},
		},
	}
}

// WithConfig overrides the default Config.
func WithConfig(cfg models.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithExtractText overrides the default ExtractText provider.
func WithExtractText(p providers.ExtractText) Option {
	return func(o *options) { o.providers.ExtractText = p }
}

// WithEmbed overrides the default Embed provider.
func WithEmbed(p providers.Embed) Option {
	return func(o *options) { o.providers.Embed = p }
}

// WithLinguisticFeatures overrides the LinguisticFeatures provider. Passing
// nil (the default) drives the fallback stylometry path.
func WithLinguisticFeatures(p providers.LinguisticFeatures) Option {
	return func(o *options) { o.providers.LinguisticFeatures = p }
}

// WithSummarizer overrides the default LLMSummarize provider.
func WithSummarizer(p providers.LLMSummarize) Option {
	return func(o *options) { o.providers.Summarizer = p }
}

// WithStageProgress registers a callback invoked after each pipeline
// stage completes, with the stage name and the signal count so far. Used
// by internal/api to broadcast progress over the websocket hub.
func WithStageProgress(fn func(stage string, signalCount int)) Option {
	return func(o *options) { o.onStageComplete = fn }
}

// RunAnalysis validates the request, then runs the fixed-order analysis
// pipeline over it, returning a fully populated AnalysisState. Validation
// failures return immediately with CurrentStep "validation_failed" and no
// stage executed.
func RunAnalysis(ctx context.Context, tenderID, tenderDescription string, bidders []models.Bidder, documentPaths map[string]map[string]string, opts ...Option) models.AnalysisState {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := validate(bidders); err != nil {
		log.Printf("[RunAnalysis] validation failed: %v", err)
		return models.AnalysisState{
			TenderID:          tenderID,
			TenderDescription: tenderDescription,
			Bidders:           bidders,
			CurrentStep:       "validation_failed",
			AnalysisComplete:  false,
			Error:             err.Error(),
		}
	}

	orchestrator := pipeline.New(o.cfg, o.providers)
	orchestrator.OnStageComplete = o.onStageComplete
	return orchestrator.Run(ctx, pipeline.Request{
		TenderID:          tenderID,
		TenderDescription: tenderDescription,
		Bidders:           bidders,
		DocumentPaths:     documentPaths,
	})
}

// validate rejects an empty bidder list, duplicate bidder IDs, and
// negative or zero bid amounts before any stage runs.
func validate(bidders []models.Bidder) error {
	if len(bidders) == 0 {
		return &models.ValidationError{Reason: "bidder list is empty"}
	}
	seen := make(map[string]bool, len(bidders))
	for _, b := range bidders {
		if seen[b.BidderID] {
			return &models.ValidationError{Reason: "duplicate bidder_id: " + b.BidderID}
		}
		seen[b.BidderID] = true
		if b.BidAmount <= 0 {
			return &models.ValidationError{Reason: "non-positive bid_amount for bidder: " + b.BidderID}
		}
	}
	return nil
}
