// Package pipeline implements the fixed-order staged state machine that
// drives one tender analysis: extract -> price -> similarity ->
// stylometry -> relationships -> summarize. Stage failures halt the run;
// stages already completed remain valid.
package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/rawblock/tenderguard/internal/aggregator"
	"github.com/rawblock/tenderguard/internal/priceengine"
	"github.com/rawblock/tenderguard/internal/providers"
	"github.com/rawblock/tenderguard/internal/relationship"
	"github.com/rawblock/tenderguard/internal/semanticengine"
	"github.com/rawblock/tenderguard/internal/stylometry"
	"github.com/rawblock/tenderguard/pkg/models"
)

// stage names, also used as AnalysisState.CurrentStep values once a stage
// has completed (a failed stage sets "<stage>_failed").
const (
	StageExtract      = "extract"
	StagePrice        = "price"
	StageSimilarity   = "similarity"
	StageStylometry   = "stylometry"
	StageRelationship = "relationships"
	StageSummarize    = "summarize"
	StageComplete     = "complete"
	StageCancelled    = "cancelled"
)

var stageOrder = []string{StageExtract, StagePrice, StageSimilarity, StageStylometry, StageRelationship, StageSummarize}

// Request is the validated input to one analysis run.
type Request struct {
	TenderID          string
	TenderDescription string
	Bidders           []models.Bidder
	DocumentPaths     map[string]map[string]string // bidderId -> handle -> path
}

// Providers bundles the external collaborators the pipeline calls.
type Providers struct {
	ExtractText        providers.ExtractText
	Embed              providers.Embed
	LinguisticFeatures providers.LinguisticFeatures // may be nil
	Summarizer         providers.LLMSummarize
}

// Orchestrator runs the fixed stage sequence over one AnalysisState.
type Orchestrator struct {
	cfg       models.Config
	providers Providers

	// OnStageComplete, if set, is called after each stage successfully
	// merges its patch, with the stage name and the signal count so far.
	// Wired by internal/api to broadcast stage progress over the
	// websocket hub; nil in CLI/library usage.
	OnStageComplete func(stage string, signalCount int)
}

// New creates an Orchestrator bound to the given configuration and
// provider set.
func New(cfg models.Config, p Providers) *Orchestrator {
	return &Orchestrator{cfg: cfg, providers: p}
}

// Run executes the staged pipeline over req, returning a fully populated
// AnalysisState. ctx is consulted for cancellation between stages; a
// cancelled context stops the run with CurrentStep "cancelled" and
// AnalysisComplete false.
func (o *Orchestrator) Run(ctx context.Context, req Request) models.AnalysisState {
	state := models.AnalysisState{
		RequestID:         uuid.NewString(),
		TenderID:          req.TenderID,
		TenderDescription: req.TenderDescription,
		Bidders:           req.Bidders,
		ExtractedText:     make(map[string]map[string]string),
		CurrentStep:       "initialized",
	}

	for _, stage := range stageOrder {
		if err := ctx.Err(); err != nil {
			state.CurrentStep = StageCancelled
			state.AnalysisComplete = false
			log.Printf("[PipelineOrchestrator] cancelled before stage %s: %v", stage, err)
			return state
		}

		patch, err := o.runStage(ctx, stage, req, &state)
		if err != nil {
			state.Error = err.Error()
			state.CurrentStep = stage + "_failed"
			state.AnalysisComplete = false
			log.Printf("[PipelineOrchestrator] stage %s failed: %v", stage, err)
			return state
		}

		applyPatch(&state, patch)
		state.CurrentStep = stage

		if o.OnStageComplete != nil {
			o.OnStageComplete(stage, len(state.RiskSignals))
		}
	}

	state.OverallRiskScore = aggregator.OverallRiskScore(state.RiskSignals)
	state.CurrentStep = StageComplete
	state.AnalysisComplete = true
	log.Printf("[PipelineOrchestrator] analysis complete, overall_risk_score=%.2f, signals=%d", state.OverallRiskScore, len(state.RiskSignals))
	return state
}

// stagePatch is the partial update a stage contributes: new signals to
// append and, at most, the one result slot this stage owns.
type stagePatch struct {
	signals              []models.RiskSignal
	extractedText        map[string]map[string]string
	priceAnalysis        *models.PriceAnalysisResult
	similarityAnalysis   *models.SimilarityAnalysisResult
	stylometryAnalysis   *models.StylometryAnalysisResult
	relationshipAnalysis *models.RelationshipAnalysisResult
	summary              string
}

func (o *Orchestrator) runStage(ctx context.Context, stage string, req Request, state *models.AnalysisState) (stagePatch, error) {
	switch stage {
	case StageExtract:
		return o.runExtract(ctx, req)
	case StagePrice:
		return o.runPrice(req)
	case StageSimilarity:
		return o.runSimilarity(ctx, state)
	case StageStylometry:
		return o.runStylometry(ctx, state, req)
	case StageRelationship:
		return o.runRelationship(state)
	case StageSummarize:
		return o.runSummarize(ctx, state)
	default:
		return stagePatch{}, nil
	}
}

func (o *Orchestrator) runExtract(ctx context.Context, req Request) (stagePatch, error) {
	extracted := make(map[string]map[string]string)
	for bidderID, byHandle := range req.DocumentPaths {
		extracted[bidderID] = make(map[string]string)
		for handle, path := range byHandle {
			text, err := o.providers.ExtractText.ExtractText(ctx, path)
			if err != nil {
				return stagePatch{}, &models.ProviderError{Provider: "ExtractText", Err: err}
			}
			extracted[bidderID][handle] = text
		}
	}
	log.Printf("[PipelineOrchestrator] extracted text for %d bidders", len(extracted))
	return stagePatch{extractedText: extracted}, nil
}

func (o *Orchestrator) runPrice(req Request) (stagePatch, error) {
	bids := make(map[string]float64, len(req.Bidders))
	for _, b := range req.Bidders {
		bids[b.BidderID] = b.BidAmount
	}
	result, signals := priceengine.New(o.cfg).Analyze(bids)
	return stagePatch{priceAnalysis: &result, signals: signals}, nil
}

func (o *Orchestrator) runSimilarity(ctx context.Context, state *models.AnalysisState) (stagePatch, error) {
	result, signals := semanticengine.New(o.cfg, o.providers.Embed).Analyze(ctx, state.ExtractedText)
	return stagePatch{similarityAnalysis: &result, signals: signals}, nil
}

func (o *Orchestrator) runStylometry(ctx context.Context, state *models.AnalysisState, req Request) (stagePatch, error) {
	order := make(map[string][]string, len(req.Bidders))
	for _, b := range req.Bidders {
		order[b.BidderID] = b.Documents
	}
	result, signals := stylometry.New(o.cfg, o.providers.LinguisticFeatures).Analyze(ctx, state.ExtractedText, order)
	return stagePatch{stylometryAnalysis: &result, signals: signals}, nil
}

func (o *Orchestrator) runRelationship(state *models.AnalysisState) (stagePatch, error) {
	var highRiskPairs []models.SimilarityPair
	if state.SimilarityAnalysis != nil {
		highRiskPairs = state.SimilarityAnalysis.HighRiskPairs
	}
	result, signals := relationship.New(o.cfg).Analyze(state.Bidders, highRiskPairs)
	return stagePatch{relationshipAnalysis: &result, signals: signals}, nil
}

func (o *Orchestrator) runSummarize(ctx context.Context, state *models.AnalysisState) (stagePatch, error) {
	payload, err := marshalSignals(state.RiskSignals)
	if err != nil {
		log.Printf("[PipelineOrchestrator] summarizer payload marshal failed (non-fatal): %v", err)
		return stagePatch{}, nil
	}
	summary, err := o.providers.Summarizer.Summarize(ctx, state.TenderDescription, payload)
	if err != nil {
		log.Printf("[PipelineOrchestrator] summarizer failed (non-fatal): %v", err)
		return stagePatch{}, nil
	}
	return stagePatch{summary: summary}, nil
}

// applyPatch merges a stage's patch into state: result slots are written
// once (never overwritten by a later stage since each stage owns exactly
// one slot), RiskSignals is extended by concatenation.
func applyPatch(state *models.AnalysisState, patch stagePatch) {
	if patch.extractedText != nil {
		state.ExtractedText = patch.extractedText
	}
	if patch.priceAnalysis != nil {
		state.PriceAnalysis = patch.priceAnalysis
	}
	if patch.similarityAnalysis != nil {
		state.SimilarityAnalysis = patch.similarityAnalysis
	}
	if patch.stylometryAnalysis != nil {
		state.StylometryAnalysis = patch.stylometryAnalysis
	}
	if patch.relationshipAnalysis != nil {
		state.RelationshipAnalysis = patch.relationshipAnalysis
	}
	if patch.summary != "" {
		state.Summary = patch.summary
	}
	state.RiskSignals = append(state.RiskSignals, patch.signals...)
}
