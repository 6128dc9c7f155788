package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rawblock/tenderguard/internal/providers"
	"github.com/rawblock/tenderguard/pkg/models"
)

type failingEmbed struct{}

func (failingEmbed) Embed(_ context.Context, _ []string) ([][]float64, error) {
	return nil, errors.New("embedding backend unavailable")
}

func testProviders(embed providers.Embed) Providers {
	return Providers{
		ExtractText:        providers.PlainTextExtractor{},
		Embed:              embed,
		LinguisticFeatures: nil,
		Summarizer:         providers.NoopSummarizer{},
	}
}

func testBidders() []models.Bidder {
	return []models.Bidder{
		{BidderID: "B1", BidAmount: 100000},
		{BidderID: "B2", BidAmount: 100000},
		{BidderID: "B3", BidAmount: 100000},
	}
}

func TestRun_EmbedFailureIsNonFatal(t *testing.T) {
	// Per spec §4.3/§7, an Embed failure is swallowed by SemanticEngine as
	// insufficient_data, not raised as a stage failure: the pipeline still
	// completes. Two documents are supplied so the engine reaches Embed;
	// PlainTextExtractor returns empty text, not an error, for .pdf paths.
	o := New(models.DefaultConfig(), testProviders(failingEmbed{}))
	state := o.Run(context.Background(), Request{
		TenderID: "T1",
		Bidders:  testBidders(),
		DocumentPaths: map[string]map[string]string{
			"B1": {"doc": "/tmp/b1.pdf"},
			"B2": {"doc": "/tmp/b2.pdf"},
		},
	})

	if !state.AnalysisComplete {
		t.Fatalf("expected embed failure to be non-fatal, got error=%s step=%s", state.Error, state.CurrentStep)
	}
	if state.SimilarityAnalysis == nil || !state.SimilarityAnalysis.InsufficientData {
		t.Fatal("expected similarity_analysis to report insufficient_data")
	}
	if state.PriceAnalysis == nil {
		t.Fatal("expected price_analysis to remain present")
	}
}

type failingExtractor struct{}

func (failingExtractor) ExtractText(_ context.Context, _ string) (string, error) {
	return "", errors.New("extractor backend unavailable")
}

func TestRun_ExtractFailureHaltsBeforeLaterStages(t *testing.T) {
	providersBundle := testProviders(failingEmbed{})
	providersBundle.ExtractText = failingExtractor{}
	o := New(models.DefaultConfig(), providersBundle)

	state := o.Run(context.Background(), Request{
		TenderID: "T1",
		Bidders:  testBidders(),
		DocumentPaths: map[string]map[string]string{
			"B1": {"doc": "/tmp/doc.txt"},
		},
	})

	if state.CurrentStep != StageExtract+"_failed" {
		t.Fatalf("expected current_step=%s, got %s", StageExtract+"_failed", state.CurrentStep)
	}
	if state.AnalysisComplete {
		t.Fatal("expected analysis_complete=false")
	}
	if state.PriceAnalysis != nil {
		t.Fatal("expected price_analysis to remain nil since price stage never ran")
	}
}

func TestRun_CompletesAndAggregatesScore(t *testing.T) {
	o := New(models.DefaultConfig(), testProviders(failingEmbed{}))
	state := o.Run(context.Background(), Request{
		TenderID: "T1",
		Bidders:  testBidders(),
	})

	if !state.AnalysisComplete {
		t.Fatalf("expected analysis to complete, got error=%s step=%s", state.Error, state.CurrentStep)
	}
	if state.CurrentStep != StageComplete {
		t.Fatalf("expected current_step=complete, got %s", state.CurrentStep)
	}
	if len(state.RiskSignals) == 0 {
		t.Fatal("expected identical-bids scenario to emit at least one signal")
	}
	if state.OverallRiskScore <= 0 {
		t.Fatalf("expected positive overall risk score, got %v", state.OverallRiskScore)
	}
}

func TestRun_MonotoneSignalsAcrossStages(t *testing.T) {
	var counts []int
	o := New(models.DefaultConfig(), testProviders(failingEmbed{}))
	o.OnStageComplete = func(stage string, signalCount int) {
		counts = append(counts, signalCount)
	}
	o.Run(context.Background(), Request{TenderID: "T1", Bidders: testBidders()})

	for i := 1; i < len(counts); i++ {
		if counts[i] < counts[i-1] {
			t.Fatalf("expected non-decreasing signal counts, got %v", counts)
		}
	}
}

func TestRun_CancellationStopsBeforeNextStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(models.DefaultConfig(), testProviders(failingEmbed{}))
	state := o.Run(ctx, Request{TenderID: "T1", Bidders: testBidders()})

	if state.CurrentStep != StageCancelled {
		t.Fatalf("expected current_step=cancelled, got %s", state.CurrentStep)
	}
	if state.AnalysisComplete {
		t.Fatal("expected analysis_complete=false on cancellation")
	}
}

func TestRun_Determinism(t *testing.T) {
	o1 := New(models.DefaultConfig(), testProviders(failingEmbed{}))
	o2 := New(models.DefaultConfig(), testProviders(failingEmbed{}))

	s1 := o1.Run(context.Background(), Request{TenderID: "T1", Bidders: testBidders()})
	s2 := o2.Run(context.Background(), Request{TenderID: "T1", Bidders: testBidders()})

	if s1.OverallRiskScore != s2.OverallRiskScore {
		t.Fatal("expected deterministic overall risk score")
	}
	if len(s1.RiskSignals) != len(s2.RiskSignals) {
		t.Fatal("expected deterministic signal count")
	}
}
