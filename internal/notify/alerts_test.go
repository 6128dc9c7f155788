package notify

import (
	"testing"

	"github.com/rawblock/tenderguard/pkg/models"
)

func TestEmitFromSignal_SkipsLowSeverity(t *testing.T) {
	var broadcast []Alert
	am := NewAlertManager(func(a Alert) { broadcast = append(broadcast, a) })

	am.EmitFromSignal("T1", models.RiskSignal{Severity: models.SeverityLow, SignalType: models.SignalPriceAnomaly})

	if len(broadcast) != 0 {
		t.Fatalf("expected low-severity signal to be skipped, got %d alerts", len(broadcast))
	}
	if len(am.GetRecentAlerts(10)) != 0 {
		t.Fatalf("expected no recent alerts, got %d", len(am.GetRecentAlerts(10)))
	}
}

func TestEmitFromSignal_EmitsMediumAndHigh(t *testing.T) {
	var broadcast []Alert
	am := NewAlertManager(func(a Alert) { broadcast = append(broadcast, a) })

	am.EmitFromSignal("T1", models.RiskSignal{ID: "s1", Severity: models.SeverityMedium, SignalType: models.SignalStylometry, Description: "style match"})
	am.EmitFromSignal("T1", models.RiskSignal{ID: "s2", Severity: models.SeverityHigh, SignalType: models.SignalDocumentSimilarity, Description: "doc match"})

	if len(broadcast) != 2 {
		t.Fatalf("expected 2 broadcasts, got %d", len(broadcast))
	}
	recent := am.GetRecentAlerts(10)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent alerts, got %d", len(recent))
	}
	// GetRecentAlerts returns newest first.
	if recent[0].SignalID != "s2" {
		t.Fatalf("expected newest alert first, got signalId=%s", recent[0].SignalID)
	}
}

func TestGetRecentAlerts_BoundedHistory(t *testing.T) {
	am := NewAlertManager(nil)
	am.maxHistory = 3

	for i := 0; i < 5; i++ {
		am.EmitAlert(Alert{Severity: models.SeverityHigh, SignalType: "x"})
	}

	if len(am.recentAlerts) != 3 {
		t.Fatalf("expected history bounded to 3, got %d", len(am.recentAlerts))
	}
}

func TestGetAlertsBySeverity_Filters(t *testing.T) {
	am := NewAlertManager(nil)
	am.EmitAlert(Alert{Severity: models.SeverityLow})
	am.EmitAlert(Alert{Severity: models.SeverityMedium})
	am.EmitAlert(Alert{Severity: models.SeverityHigh})

	filtered := am.GetAlertsBySeverity(models.SeverityMedium)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 alerts at or above medium, got %d", len(filtered))
	}
}

func TestRegisterAndRemoveWebhook(t *testing.T) {
	am := NewAlertManager(nil)
	am.RegisterWebhook("slack", "https://hooks.example/1", models.SeverityMedium, nil)

	if len(am.webhooks) != 1 {
		t.Fatalf("expected 1 registered webhook, got %d", len(am.webhooks))
	}

	am.RemoveWebhook("slack")
	if len(am.webhooks) != 0 {
		t.Fatalf("expected webhook removed, got %d remaining", len(am.webhooks))
	}
}

func TestEmitAlert_AssignsIDAndTimestampWhenMissing(t *testing.T) {
	am := NewAlertManager(nil)
	am.EmitAlert(Alert{Severity: models.SeverityHigh})

	alerts := am.GetRecentAlerts(1)
	if len(alerts) != 1 {
		t.Fatal("expected one alert recorded")
	}
	if alerts[0].ID == "" {
		t.Fatal("expected an auto-assigned ID")
	}
	if alerts[0].Timestamp.IsZero() {
		t.Fatal("expected an auto-assigned timestamp")
	}
}
