package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rawblock/tenderguard/pkg/models"
)

// Alert & webhook system.
//
// Medium/high RiskSignals are:
//  1. Broadcast to connected dashboards via a callback (wired to the
//     websocket hub in internal/api).
//  2. Pushed to registered webhook endpoints (Slack, Discord, SIEM).
//  3. Stored in memory for recent-alert history served by the API.
//
// Webhook payloads are the Alert itself serialized as JSON; no
// receiver-specific format (Slack, Discord, PagerDuty) is produced.

// Alert is a structured notification derived from a RiskSignal.
type Alert struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Severity    string            `json:"severity"` // low/medium/high
	SignalType  string            `json:"signalType"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TenderID    string            `json:"tenderId"`
	SignalID    string            `json:"signalId,omitempty"`
	Signal      *models.RiskSignal `json:"signal,omitempty"`
}

// WebhookEndpoint is a registered webhook receiver.
type WebhookEndpoint struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Enabled     bool              `json:"enabled"`
	Headers     map[string]string `json:"headers,omitempty"`
	MinSeverity string            `json:"minSeverity"` // only send alerts >= this severity
}

// AlertManager handles alert emission and webhook delivery.
type AlertManager struct {
	mu            sync.RWMutex
	webhooks      []WebhookEndpoint
	recentAlerts  []Alert
	maxHistory    int
	httpClient    *http.Client
	alertCallback func(Alert) // broadcast callback, e.g. websocket hub
}

// NewAlertManager creates an alert manager. broadcastFn may be nil.
func NewAlertManager(broadcastFn func(Alert)) *AlertManager {
	return &AlertManager{
		webhooks:      make([]WebhookEndpoint, 0),
		recentAlerts:  make([]Alert, 0),
		maxHistory:    1000,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		alertCallback: broadcastFn,
	}
}

// RegisterWebhook adds a webhook endpoint.
func (am *AlertManager) RegisterWebhook(name, url, minSeverity string, headers map[string]string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.webhooks = append(am.webhooks, WebhookEndpoint{
		Name:        name,
		URL:         url,
		Enabled:     true,
		Headers:     headers,
		MinSeverity: minSeverity,
	})

	log.Printf("[AlertManager] Registered webhook: %s -> %s (min: %s)", name, url, minSeverity)
}

// RemoveWebhook removes a webhook by name.
func (am *AlertManager) RemoveWebhook(name string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	for i, wh := range am.webhooks {
		if wh.Name == name {
			am.webhooks = append(am.webhooks[:i], am.webhooks[i+1:]...)
			return
		}
	}
}

// EmitAlert processes and distributes an alert.
func (am *AlertManager) EmitAlert(alert Alert) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	am.mu.Lock()
	am.recentAlerts = append(am.recentAlerts, alert)
	if len(am.recentAlerts) > am.maxHistory {
		am.recentAlerts = am.recentAlerts[len(am.recentAlerts)-am.maxHistory:]
	}
	webhooks := make([]WebhookEndpoint, len(am.webhooks))
	copy(webhooks, am.webhooks)
	am.mu.Unlock()

	if am.alertCallback != nil {
		am.alertCallback(alert)
	}

	for _, wh := range webhooks {
		if !wh.Enabled {
			continue
		}
		if !severityMeetsThreshold(alert.Severity, wh.MinSeverity) {
			continue
		}
		go am.sendWebhook(wh, alert)
	}

	log.Printf("[Alert] [%s] %s: %s (tender: %s)", alert.Severity, alert.SignalType, alert.Title, alert.TenderID)
}

// EmitFromSignal builds and emits an Alert from a RiskSignal. Low-severity
// signals are not alerted on, only stored via the caller's own history if
// it wants one — alerting exists to page someone, not to log every signal.
func (am *AlertManager) EmitFromSignal(tenderID string, signal models.RiskSignal) {
	if signal.Severity == models.SeverityLow {
		return
	}

	title := "Risk signal: " + signal.SignalType
	if signal.Severity == models.SeverityHigh {
		title = "High-risk signal: " + signal.SignalType
	}

	alert := Alert{
		Severity:    signal.Severity,
		SignalType:  signal.SignalType,
		Title:       title,
		Description: signal.Description,
		TenderID:    tenderID,
		SignalID:    signal.ID,
		Signal:      &signal,
	}

	am.EmitAlert(alert)
}

// GetRecentAlerts returns the most recent alerts, newest first.
func (am *AlertManager) GetRecentAlerts(limit int) []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	if limit <= 0 || limit > len(am.recentAlerts) {
		limit = len(am.recentAlerts)
	}

	start := len(am.recentAlerts) - limit
	result := make([]Alert, limit)
	for i := 0; i < limit; i++ {
		result[i] = am.recentAlerts[start+limit-1-i]
	}
	return result
}

// GetAlertsBySeverity returns alerts meeting a minimum severity.
func (am *AlertManager) GetAlertsBySeverity(minSeverity string) []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	var filtered []Alert
	for _, alert := range am.recentAlerts {
		if severityMeetsThreshold(alert.Severity, minSeverity) {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}

// sendWebhook delivers an alert to a webhook endpoint.
func (am *AlertManager) sendWebhook(wh WebhookEndpoint, alert Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("[Webhook] Failed to marshal alert: %v", err)
		return
	}

	req, err := http.NewRequest("POST", wh.URL, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("[Webhook] Failed to create request for %s: %v", wh.Name, err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	for key, val := range wh.Headers {
		req.Header.Set(key, val)
	}

	resp, err := am.httpClient.Do(req)
	if err != nil {
		log.Printf("[Webhook] Failed to send to %s: %v", wh.Name, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[Webhook] %s returned status %d", wh.Name, resp.StatusCode)
	}
}

// severityMeetsThreshold checks if a severity level meets the minimum.
func severityMeetsThreshold(severity, minimum string) bool {
	levels := map[string]int{"low": 0, "medium": 1, "high": 2}
	return levels[severity] >= levels[minimum]
}
