package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pms-service/internal/model"
)

type FraudAlertRepository struct {
	db *gorm.DB
}

func NewFraudAlertRepository(db *gorm.DB) *FraudAlertRepository {
	return &FraudAlertRepository{db: db}
}

func (r *FraudAlertRepository) AppendTx(tx *gorm.DB, alerts []model.FraudAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	return tx.Create(&alerts).Error
}

// DeleteRegenerableTx removes the photo-completeness alerts ahead of a
// recompute. All other alert types are append-only and are never touched.
func (r *FraudAlertRepository) DeleteRegenerableTx(tx *gorm.DB, workOrderID uuid.UUID) error {
	return tx.
		Where("work_order_id = ? AND type IN ?", workOrderID, model.RegenerableAlertTypes).
		Delete(&model.FraudAlert{}).Error
}

func (r *FraudAlertRepository) HasAnyTx(tx *gorm.DB, workOrderID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.FraudAlert{}).
		Where("work_order_id = ?", workOrderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FraudAlertRepository) ListByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]model.FraudAlert, error) {
	var alerts []model.FraudAlert
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("detected_at ASC").
		Find(&alerts).Error
	return alerts, err
}
