package analysis

import (
	"context"
	"testing"

	"github.com/rawblock/tenderguard/pkg/models"
)

func TestRunAnalysis_EmptyBidderListIsValidationError(t *testing.T) {
	state := RunAnalysis(context.Background(), "T1", "desc", nil, nil)

	if state.CurrentStep != "validation_failed" {
		t.Fatalf("expected validation_failed, got %s", state.CurrentStep)
	}
	if state.Error == "" {
		t.Fatal("expected a validation error message")
	}
}

func TestRunAnalysis_DuplicateBidderIDIsValidationError(t *testing.T) {
	bidders := []models.Bidder{
		{BidderID: "B1", BidAmount: 100},
		{BidderID: "B1", BidAmount: 200},
	}
	state := RunAnalysis(context.Background(), "T1", "desc", bidders, nil)

	if state.CurrentStep != "validation_failed" {
		t.Fatalf("expected validation_failed, got %s", state.CurrentStep)
	}
}

func TestRunAnalysis_NonPositiveBidAmountIsValidationError(t *testing.T) {
	bidders := []models.Bidder{
		{BidderID: "B1", BidAmount: 0},
		{BidderID: "B2", BidAmount: 100},
	}
	state := RunAnalysis(context.Background(), "T1", "desc", bidders, nil)

	if state.CurrentStep != "validation_failed" {
		t.Fatalf("expected validation_failed, got %s", state.CurrentStep)
	}
}

func TestRunAnalysis_TwoBiddersNoDocumentsCompletesEmpty(t *testing.T) {
	bidders := []models.Bidder{
		{BidderID: "B1", BidAmount: 100},
		{BidderID: "B2", BidAmount: 200},
	}
	state := RunAnalysis(context.Background(), "T1", "desc", bidders, nil)

	if !state.AnalysisComplete {
		t.Fatalf("expected analysis to complete, got error=%s", state.Error)
	}
	if len(state.RiskSignals) != 0 {
		t.Fatalf("expected no signals for 2 non-colluding bidders, got %d", len(state.RiskSignals))
	}
}

func TestRunAnalysis_StageProgressCallbackInvoked(t *testing.T) {
	var stages []string
	bidders := []models.Bidder{
		{BidderID: "B1", BidAmount: 100000},
		{BidderID: "B2", BidAmount: 100000},
		{BidderID: "B3", BidAmount: 100000},
	}
	state := RunAnalysis(context.Background(), "T1", "desc", bidders, nil,
		WithStageProgress(func(stage string, signalCount int) {
			stages = append(stages, stage)
		}),
	)

	if !state.AnalysisComplete {
		t.Fatalf("expected analysis to complete, got error=%s", state.Error)
	}
	if len(stages) == 0 {
		t.Fatal("expected at least one stage-progress callback invocation")
	}
}

func TestRunAnalysis_WithConfigOverride(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.MinCliqueSize = 2
	bidders := []models.Bidder{
		{BidderID: "B1", BidAmount: 100, Email: "shared@x.com"},
		{BidderID: "B2", BidAmount: 200, Email: "shared@x.com"},
	}
	state := RunAnalysis(context.Background(), "T1", "desc", bidders, nil, WithConfig(cfg))

	if !state.AnalysisComplete {
		t.Fatalf("expected analysis to complete, got error=%s", state.Error)
	}
	if state.RelationshipAnalysis == nil {
		t.Fatal("expected relationship_analysis to be populated")
	}
	found := false
	for _, g := range state.RelationshipAnalysis.HighRiskGroups {
		if g.Kind == "clique" && len(g.Members) == 2 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected min_clique_size=2 override to surface the 2-member shared-email clique")
	}
}
