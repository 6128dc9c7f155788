package pipeline

import (
	"encoding/json"

	"github.com/rawblock/tenderguard/pkg/models"
)

func marshalSignals(signals []models.RiskSignal) ([]byte, error) {
	return json.Marshal(signals)
}
