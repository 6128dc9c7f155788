package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/rawblock/tenderguard/pkg/analysis"
	"github.com/rawblock/tenderguard/pkg/models"
)

// cliRequest mirrors the JSON body accepted by POST /api/v1/analyze, so
// the same request file works against either entry point.
type cliRequest struct {
	TenderID          string                       `json:"tenderId"`
	TenderDescription string                       `json:"tenderDescription"`
	Bidders           []models.Bidder              `json:"bidders"`
	DocumentPaths     map[string]map[string]string `json:"documentPaths"`
}

func main() {
	requestPath := flag.String("request", "", "path to a JSON analysis request file")
	flag.Parse()

	if *requestPath == "" {
		log.Fatal("usage: tenderguard -request <path-to-request.json>")
	}

	raw, err := os.ReadFile(*requestPath)
	if err != nil {
		log.Fatalf("failed to read request file: %v", err)
	}

	var req cliRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Fatalf("failed to parse request file: %v", err)
	}

	cfg := configFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	state := analysis.RunAnalysis(ctx, req.TenderID, req.TenderDescription, req.Bidders, req.DocumentPaths,
		analysis.WithConfig(cfg),
	)

	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal analysis result: %v", err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	if !state.AnalysisComplete {
		os.Exit(1)
	}
}

// configFromEnv builds a models.Config from DefaultConfig plus
// TENDERGUARD_* overrides, matching the server entry point.
func configFromEnv() models.Config {
	cfg := models.DefaultConfig()

	cfg.PriceOutlierThreshold = getEnvFloatOrDefault("TENDERGUARD_PRICE_OUTLIER_THRESHOLD", cfg.PriceOutlierThreshold)
	cfg.PriceCoverMargin = getEnvFloatOrDefault("TENDERGUARD_PRICE_COVER_MARGIN", cfg.PriceCoverMargin)
	cfg.PriceCoverGap = getEnvFloatOrDefault("TENDERGUARD_PRICE_COVER_GAP", cfg.PriceCoverGap)
	cfg.SemanticThreshold = getEnvFloatOrDefault("TENDERGUARD_SEMANTIC_THRESHOLD", cfg.SemanticThreshold)
	cfg.SemanticHighRiskThreshold = getEnvFloatOrDefault("TENDERGUARD_SEMANTIC_HIGH_RISK_THRESHOLD", cfg.SemanticHighRiskThreshold)
	cfg.StylometryThreshold = getEnvFloatOrDefault("TENDERGUARD_STYLOMETRY_THRESHOLD", cfg.StylometryThreshold)
	cfg.MinBiddersForCollusion = getEnvIntOrDefault("TENDERGUARD_MIN_BIDDERS_FOR_COLLUSION", cfg.MinBiddersForCollusion)
	cfg.MinCliqueSize = getEnvIntOrDefault("TENDERGUARD_MIN_CLIQUE_SIZE", cfg.MinCliqueSize)
	cfg.SummarizerModel = getEnvOrDefault("TENDERGUARD_SUMMARIZER_MODEL", cfg.SummarizerModel)

	return cfg
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Printf("[Config] invalid value for %s=%q, using default %v", key, val, fallback)
		return fallback
	}
	return parsed
}

func getEnvIntOrDefault(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("[Config] invalid value for %s=%q, using default %v", key, val, fallback)
		return fallback
	}
	return parsed
}
