package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pms-service/internal/model"
)

type WorkOrderPhotoRepository struct {
	db *gorm.DB
}

func NewWorkOrderPhotoRepository(db *gorm.DB) *WorkOrderPhotoRepository {
	return &WorkOrderPhotoRepository{db: db}
}

func (r *WorkOrderPhotoRepository) CreateTx(tx *gorm.DB, photo *model.WorkOrderPhoto) error {
	return tx.Create(photo).Error
}

func (r *WorkOrderPhotoRepository) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.WorkOrderPhoto{}, "id = ?", id).Error
}

func (r *WorkOrderPhotoRepository) GetByID(ctx context.Context, id string) (*model.WorkOrderPhoto, error) {
	var photo model.WorkOrderPhoto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *WorkOrderPhotoRepository) ListByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderPhoto, error) {
	var photos []model.WorkOrderPhoto
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

// PhotoEvidenceCounts summarizes the photo set feeding the completeness check.
type PhotoEvidenceCounts struct {
	Total     int
	HasBefore bool
	HasAfter  bool
}

// CountsTx tallies the work order's photos inside the current transaction so
// the completeness recompute sees its own insert or delete.
func (r *WorkOrderPhotoRepository) CountsTx(tx *gorm.DB, workOrderID uuid.UUID) (PhotoEvidenceCounts, error) {
	var counts PhotoEvidenceCounts

	var total int64
	if err := tx.Model(&model.WorkOrderPhoto{}).
		Where("work_order_id = ?", workOrderID).
		Count(&total).Error; err != nil {
		return counts, err
	}
	counts.Total = int(total)

	var before int64
	if err := tx.Model(&model.WorkOrderPhoto{}).
		Where("work_order_id = ? AND photo_type = ?", workOrderID, model.PhotoTypeBefore).
		Count(&before).Error; err != nil {
		return counts, err
	}
	counts.HasBefore = before > 0

	var after int64
	if err := tx.Model(&model.WorkOrderPhoto{}).
		Where("work_order_id = ? AND photo_type = ?", workOrderID, model.PhotoTypeAfter).
		Count(&after).Error; err != nil {
		return counts, err
	}
	counts.HasAfter = after > 0

	return counts, nil
}
