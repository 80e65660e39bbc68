package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AlertType string

const (
	AlertTypeOdometerAnomaly    AlertType = "ODOMETER_ANOMALY"
	AlertTypeMissedPMSInterval  AlertType = "MISSED_PMS_INTERVAL"
	AlertTypeMissedTimeInterval AlertType = "MISSED_TIME_INTERVAL"
	AlertTypeMissingPhotos      AlertType = "MISSING_PHOTOS"
	AlertTypeMissingBeforeAfter AlertType = "MISSING_BEFORE_AFTER"
	AlertTypeLocationMismatch   AlertType = "LOCATION_MISMATCH"
)

type AlertSeverity string

const (
	AlertSeverityWarning  AlertSeverity = "WARNING"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

// RegenerableAlertTypes are the photo-completeness alerts that are deleted and
// recreated on every recompute. All other types are append-only history.
var RegenerableAlertTypes = []AlertType{
	AlertTypeMissingPhotos,
	AlertTypeMissingBeforeAfter,
}

// FraudAlert is one row per detected condition, insert-only per work order.
type FraudAlert struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	WorkOrderID uuid.UUID      `gorm:"type:uuid;not null;index" json:"work_order_id"`
	Type        AlertType      `gorm:"type:alert_type;not null" json:"type"`
	Severity    AlertSeverity  `gorm:"type:alert_severity;not null;default:WARNING" json:"severity"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Data        datatypes.JSON `gorm:"type:jsonb" json:"data"`
	DetectedAt  time.Time      `gorm:"not null;index" json:"detected_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (FraudAlert) TableName() string {
	return "fraud_alerts"
}

func (a *FraudAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
