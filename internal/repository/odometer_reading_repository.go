package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pms-service/internal/model"
)

type OdometerReadingRepository struct {
	db *gorm.DB
}

func NewOdometerReadingRepository(db *gorm.DB) *OdometerReadingRepository {
	return &OdometerReadingRepository{db: db}
}

func (r *OdometerReadingRepository) CreateTx(tx *gorm.DB, reading *model.OdometerReading) error {
	return tx.Create(reading).Error
}

func (r *OdometerReadingRepository) GetByID(ctx context.Context, id string) (*model.OdometerReading, error) {
	var reading model.OdometerReading
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reading).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// LatestByVIN returns the vehicle's most recent reading by observation date,
// or nil when no prior reading exists.
func (r *OdometerReadingRepository) LatestByVIN(ctx context.Context, vin string) (*model.OdometerReading, error) {
	var reading model.OdometerReading
	err := r.db.WithContext(ctx).
		Where("vin = ?", vin).
		Order("reading_date DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *OdometerReadingRepository) ListByVIN(ctx context.Context, vin string) ([]model.OdometerReading, error) {
	var readings []model.OdometerReading
	err := r.db.WithContext(ctx).
		Where("vin = ?", vin).
		Order("reading_date DESC").
		Find(&readings).Error
	return readings, err
}

func (r *OdometerReadingRepository) ListByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]model.OdometerReading, error) {
	var readings []model.OdometerReading
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("reading_date DESC").
		Find(&readings).Error
	return readings, err
}

// Verify records the manual supervisor sign-off. The only fields mutable
// after creation are the verification ones.
func (r *OdometerReadingRepository) Verify(ctx context.Context, reading *model.OdometerReading) error {
	return r.db.WithContext(ctx).
		Model(reading).
		Select("is_verified", "verified_by_user_id", "verified_at").
		Updates(reading).Error
}
