package main

import (
	"log"
	"os"
	"strconv"

	"github.com/rawblock/tenderguard/internal/api"
	"github.com/rawblock/tenderguard/pkg/models"
)

func main() {
	log.Println("Starting TenderGuard Analysis Engine...")

	cfg := configFromEnv()

	wsHub := api.NewHub()
	go wsHub.Run()

	r := api.SetupRouter(cfg, wsHub)

	port := getEnvOrDefault("PORT", "8080")

	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// configFromEnv builds a models.Config starting from DefaultConfig and
// applying TENDERGUARD_* environment-variable overrides. Configuration
// *file* loading (YAML/TOML) is out of scope; only these env-var
// overrides are ambient.
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

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
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
