package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/tenderguard/internal/notify"
	"github.com/rawblock/tenderguard/pkg/analysis"
	"github.com/rawblock/tenderguard/pkg/models"
)

// APIHandler wires incoming HTTP requests to pkg/analysis.RunAnalysis.
type APIHandler struct {
	cfg     models.Config
	wsHub   *Hub
	alerts  *notify.AlertManager
}

// SetupRouter wires a gin.Engine exposing the analyze/health/stream
// endpoints described in SPEC_FULL.md §6.1.
func SetupRouter(cfg models.Config, wsHub *Hub) *gin.Engine {
	r := gin.Default()

	// CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://tenderguard.example,https://www.tenderguard.example
	// Development: leave empty for *.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		cfg:    cfg,
		wsHub:  wsHub,
		alerts: notify.NewAlertManager(func(a notify.Alert) {
			payload, _ := json.Marshal(gin.H{"type": "alert", "alert": a})
			wsHub.Broadcast(payload)
		}),
	}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
	}

	protected := r.Group("/api/v1")
	protected.Use(AuthMiddleware())
	protected.Use(NewRateLimiter(30, 5).Middleware())
	{
		protected.POST("/analyze", handler.handleAnalyze)
		protected.GET("/alerts", handler.handleGetAlerts)
		protected.POST("/webhooks", handler.handleRegisterWebhook)
		protected.DELETE("/webhooks/:name", handler.handleRemoveWebhook)
	}

	return r
}

// analyzeRequest is the JSON body accepted by POST /api/v1/analyze.
type analyzeRequest struct {
	TenderID          string                       `json:"tenderId"`
	TenderDescription string                       `json:"tenderDescription"`
	Bidders           []models.Bidder              `json:"bidders"`
	DocumentPaths     map[string]map[string]string `json:"documentPaths"`
}

// handleAnalyze runs RunAnalysis synchronously and returns the resulting
// AnalysisState. Validation errors return 400; anything that reaches the
// pipeline is returned 200 with analysisComplete reflecting success.
func (h *APIHandler) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if req.TenderID == "" || len(req.Bidders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenderId and at least one bidder are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	state := analysis.RunAnalysis(ctx, req.TenderID, req.TenderDescription, req.Bidders, req.DocumentPaths,
		analysis.WithConfig(h.cfg),
		analysis.WithStageProgress(func(stage string, signalCount int) {
			payload, _ := json.Marshal(gin.H{
				"type":        "stage_complete",
				"stage":       stage,
				"signalCount": signalCount,
				"timestamp":   time.Now(),
			})
			h.wsHub.Broadcast(payload)
		}),
	)

	for _, signal := range state.RiskSignals {
		h.alerts.EmitFromSignal(state.TenderID, signal)
	}

	status := http.StatusOK
	if state.CurrentStep == "validation_failed" {
		status = http.StatusBadRequest
	}
	c.JSON(status, state)
}

// GET /api/v1/alerts
// Returns recent alerts, newest first, optionally filtered by minSeverity
// and capped by limit (default: no cap).
func (h *APIHandler) handleGetAlerts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	var alerts []notify.Alert
	if minSeverity := c.Query("minSeverity"); minSeverity != "" {
		alerts = h.alerts.GetAlertsBySeverity(minSeverity)
		// GetAlertsBySeverity returns oldest first; reverse, then cap.
		for i, j := 0, len(alerts)-1; i < j; i, j = i+1, j-1 {
			alerts[i], alerts[j] = alerts[j], alerts[i]
		}
		if limit > 0 && limit < len(alerts) {
			alerts = alerts[:limit]
		}
	} else {
		alerts = h.alerts.GetRecentAlerts(limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

// POST /api/v1/webhooks
// Registers a webhook endpoint to receive medium/high-severity alerts.
func (h *APIHandler) handleRegisterWebhook(c *gin.Context) {
	var req struct {
		Name        string            `json:"name" binding:"required"`
		URL         string            `json:"url" binding:"required"`
		MinSeverity string            `json:"minSeverity"`
		Headers     map[string]string `json:"headers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.MinSeverity == "" {
		req.MinSeverity = models.SeverityMedium
	}

	h.alerts.RegisterWebhook(req.Name, req.URL, req.MinSeverity, req.Headers)

	c.JSON(http.StatusCreated, gin.H{
		"status": "registered",
		"name":   req.Name,
	})
}

// DELETE /api/v1/webhooks/:name
// Removes a previously registered webhook endpoint.
func (h *APIHandler) handleRemoveWebhook(c *gin.Context) {
	name := c.Param("name")
	h.alerts.RemoveWebhook(name)
	c.JSON(http.StatusOK, gin.H{"status": "removed", "name": name})
}

// handleHealth returns liveness for service discovery.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "TenderGuard Analysis Engine",
	})
}
