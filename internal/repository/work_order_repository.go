package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pms-service/internal/model"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(ctx context.Context, order *model.WorkOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id string) (*model.WorkOrder, error) {
	var order model.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("FraudAlerts", func(db *gorm.DB) *gorm.DB {
			return db.Order("detected_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Transaction runs fn inside a single database transaction. All fraud-alert
// mutations go through here so that two concurrent events on the same work
// order cannot lose each other's updates.
func (r *WorkOrderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// GetByIDForUpdate loads the work order under a row lock. Must be called
// inside a Transaction; the lock is held until commit.
func (r *WorkOrderRepository) GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WorkOrder, error) {
	var order model.WorkOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *WorkOrderRepository) UpdateTx(tx *gorm.DB, order *model.WorkOrder) error {
	return tx.Omit("FraudAlerts").Save(order).Error
}

func (r *WorkOrderRepository) Update(ctx context.Context, order *model.WorkOrder) error {
	return r.db.WithContext(ctx).Omit("FraudAlerts").Save(order).Error
}

type WorkOrderListFilter struct {
	VIN         *string
	Branch      *string
	Status      *model.VerificationStatus
	FlaggedOnly bool
}

func (r *WorkOrderRepository) List(ctx context.Context, filter WorkOrderListFilter) ([]model.WorkOrder, error) {
	var orders []model.WorkOrder
	query := r.db.WithContext(ctx).Model(&model.WorkOrder{})

	if filter.VIN != nil {
		query = query.Where("vin = ?", *filter.VIN)
	}
	if filter.Branch != nil {
		query = query.Where("branch = ?", *filter.Branch)
	}
	if filter.Status != nil {
		query = query.Where("verification_status = ?", *filter.Status)
	}
	if filter.FlaggedOnly {
		query = query.Where("has_fraud_alerts = ?", true)
	}

	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *WorkOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var order model.WorkOrder
	err := r.db.WithContext(ctx).
		Select("id").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
