package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnomalyType string

const (
	AnomalyTypeNone              AnomalyType = "NONE"
	AnomalyTypeRollback          AnomalyType = "ROLLBACK"
	AnomalyTypeExcessiveIncrease AnomalyType = "EXCESSIVE_INCREASE"
	AnomalyTypeDuplicate         AnomalyType = "DUPLICATE"
	AnomalyTypeMissedInterval    AnomalyType = "MISSED_INTERVAL"
)

type OdometerReading struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	VIN         string     `gorm:"column:vin;type:varchar(32);not null;index" json:"vin"`
	PlateNumber *string    `gorm:"type:varchar(32)" json:"plate_number"`
	WorkOrderID *uuid.UUID `gorm:"type:uuid;index" json:"work_order_id"`
	Branch      string     `gorm:"type:varchar(64);not null" json:"branch"`

	Reading     int       `gorm:"not null" json:"reading"`
	Unit        string    `gorm:"type:varchar(8);not null;default:km" json:"unit"`
	ReadingDate time.Time `gorm:"not null;index" json:"reading_date"`

	// Computed once at creation against the vehicle's prior reading.
	PreviousReading     *int       `json:"previous_reading"`
	PreviousReadingDate *time.Time `json:"previous_reading_date"`
	DistanceDiff        *int       `json:"distance_diff"`
	DaysDiff            *int       `json:"days_diff"`
	AvgDailyDistance    *float64   `json:"avg_daily_distance"`

	IsAnomaly    bool        `gorm:"not null;default:false" json:"is_anomaly"`
	AnomalyType  AnomalyType `gorm:"type:anomaly_type;not null;default:NONE" json:"anomaly_type"`
	AnomalyNotes string      `gorm:"type:text" json:"anomaly_notes"`

	PhotoPath        *string `gorm:"type:text" json:"photo_path"`
	HasPhotoEvidence bool    `gorm:"not null;default:false" json:"has_photo_evidence"`

	RecordedByUserID uuid.UUID  `gorm:"type:uuid;not null" json:"recorded_by_user_id"`
	RecordedIP       string     `gorm:"column:recorded_ip;type:varchar(64)" json:"recorded_ip"`
	IsVerified       bool       `gorm:"not null;default:false" json:"is_verified"`
	VerifiedByUserID *uuid.UUID `gorm:"type:uuid" json:"verified_by_user_id"`
	VerifiedAt       *time.Time `json:"verified_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OdometerReading) TableName() string {
	return "odometer_readings"
}

func (r *OdometerReading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
