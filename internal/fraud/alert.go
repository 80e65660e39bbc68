package fraud

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"pms-service/internal/model"
)

// AlertDraft is a detected condition before it is attached to a work order.
type AlertDraft struct {
	Type     model.AlertType
	Severity model.AlertSeverity
	Message  string
	Data     map[string]any
}

// ToModel materializes the draft as a fraud_alerts row.
func (d AlertDraft) ToModel(workOrderID uuid.UUID, detectedAt time.Time) model.FraudAlert {
	severity := d.Severity
	if severity == "" {
		severity = model.AlertSeverityWarning
	}

	var data datatypes.JSON
	if d.Data != nil {
		if encoded, err := json.Marshal(d.Data); err == nil {
			data = encoded
		}
	}

	return model.FraudAlert{
		WorkOrderID: workOrderID,
		Type:        d.Type,
		Severity:    severity,
		Message:     d.Message,
		Data:        data,
		DetectedAt:  detectedAt,
	}
}
