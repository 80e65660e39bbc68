package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoType string

const (
	PhotoTypeBefore     PhotoType = "BEFORE"
	PhotoTypeAfter      PhotoType = "AFTER"
	PhotoTypeDuring     PhotoType = "DURING"
	PhotoTypeDamage     PhotoType = "DAMAGE"
	PhotoTypeCompletion PhotoType = "COMPLETION"
)

type WorkOrderPhoto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"work_order_id"`

	FilePath     string    `gorm:"type:text;not null" json:"file_path"`
	OriginalName string    `gorm:"type:text;not null" json:"original_name"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	MimeType     string    `gorm:"type:varchar(64);not null" json:"mime_type"`
	PhotoType    PhotoType `gorm:"type:photo_type;not null" json:"photo_type"`

	// Extracted EXIF metadata. All nullable: extraction may fail or tags may be absent.
	GPSLatitude    *float64   `gorm:"column:gps_latitude" json:"gps_latitude"`
	GPSLongitude   *float64   `gorm:"column:gps_longitude" json:"gps_longitude"`
	CapturedAt     *time.Time `json:"captured_at"`
	CameraMake     *string    `gorm:"type:varchar(64)" json:"camera_make"`
	CameraModel    *string    `gorm:"type:varchar(64)" json:"camera_model"`
	HasGPSData     bool       `gorm:"column:has_gps_data;not null;default:false" json:"has_gps_data"`
	HasExifData    bool       `gorm:"column:has_exif_data;not null;default:false" json:"has_exif_data"`

	UploadedByUserID uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by_user_id"`
	UploadedIP       string    `gorm:"column:uploaded_ip;type:varchar(64)" json:"uploaded_ip"`
	UserAgent        string    `gorm:"type:text" json:"user_agent"`
	IsVerified       bool      `gorm:"not null;default:false" json:"is_verified"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WorkOrderPhoto) TableName() string {
	return "work_order_photos"
}

func (p *WorkOrderPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
