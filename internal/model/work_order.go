package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusFlagged  VerificationStatus = "FLAGGED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
)

type WorkOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrderNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	VIN         string    `gorm:"column:vin;type:varchar(32);not null;index" json:"vin"`
	PlateNumber *string   `gorm:"type:varchar(32)" json:"plate_number"`
	Branch      string    `gorm:"type:varchar(64);not null;index" json:"branch"`
	Description string    `gorm:"type:text" json:"description"`

	// PMS configuration
	CurrentMileage            *int `json:"current_mileage"`
	PMSIntervalKm             *int `gorm:"column:pms_interval_km" json:"pms_interval_km"`
	TimeIntervalMonths        *int `json:"time_interval_months"`
	MinimumPhotosRequired     int  `gorm:"not null;default:0" json:"minimum_photos_required"`
	RequiresPhotoVerification bool `gorm:"not null;default:false" json:"requires_photo_verification"`

	// Declared service location, used to verify photo GPS evidence.
	ServiceLatitude  *float64 `json:"service_latitude"`
	ServiceLongitude *float64 `json:"service_longitude"`

	// Derived fraud state
	FraudAlerts        []FraudAlert       `gorm:"foreignKey:WorkOrderID" json:"fraud_alerts,omitempty"`
	HasFraudAlerts     bool               `gorm:"not null;default:false" json:"has_fraud_alerts"`
	VerificationStatus VerificationStatus `gorm:"type:verification_status;not null;default:PENDING" json:"verification_status"`
	OdometerVerified   bool               `gorm:"not null;default:false" json:"odometer_verified"`
	LocationVerified   bool               `gorm:"not null;default:false" json:"location_verified"`

	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_user_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

func (w *WorkOrder) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
