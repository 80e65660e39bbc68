package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pms-service/internal/model"
	"pms-service/internal/repository"
	"pms-service/internal/utils"
)

type WorkOrderService struct {
	workOrderRepo *repository.WorkOrderRepository
	alertRepo     *repository.FraudAlertRepository
	now           func() time.Time
}

func NewWorkOrderService(
	workOrderRepo *repository.WorkOrderRepository,
	alertRepo *repository.FraudAlertRepository,
	now func() time.Time,
) *WorkOrderService {
	if now == nil {
		now = time.Now
	}
	return &WorkOrderService{
		workOrderRepo: workOrderRepo,
		alertRepo:     alertRepo,
		now:           now,
	}
}

type CreateWorkOrderInput struct {
	OrderNumber               string
	VIN                       string
	PlateNumber               *string
	Branch                    string
	Description               string
	PMSIntervalKm             *int
	TimeIntervalMonths        *int
	MinimumPhotosRequired     int
	RequiresPhotoVerification bool
	ServiceLatitude           *float64
	ServiceLongitude          *float64
}

func (s *WorkOrderService) Create(ctx context.Context, principal model.Principal, input CreateWorkOrderInput) (*model.WorkOrder, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	vin := utils.NormalizeVIN(input.VIN)
	if vin == "" {
		return nil, fmt.Errorf("%w: vin is required", ErrInvalidInput)
	}
	if input.OrderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrInvalidInput)
	}
	if input.Branch == "" {
		return nil, fmt.Errorf("%w: branch is required", ErrInvalidInput)
	}
	if input.PMSIntervalKm != nil && *input.PMSIntervalKm <= 0 {
		return nil, fmt.Errorf("%w: pms interval must be positive", ErrInvalidInput)
	}
	if input.MinimumPhotosRequired < 0 {
		return nil, fmt.Errorf("%w: minimum photos must be non-negative", ErrInvalidInput)
	}
	if (input.ServiceLatitude == nil) != (input.ServiceLongitude == nil) {
		return nil, fmt.Errorf("%w: service location requires both latitude and longitude", ErrInvalidInput)
	}

	exists, err := s.workOrderRepo.ExistsByOrderNumber(ctx, input.OrderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	order := &model.WorkOrder{
		OrderNumber:               input.OrderNumber,
		VIN:                       vin,
		Branch:                    input.Branch,
		Description:               input.Description,
		PMSIntervalKm:             input.PMSIntervalKm,
		TimeIntervalMonths:        input.TimeIntervalMonths,
		MinimumPhotosRequired:     input.MinimumPhotosRequired,
		RequiresPhotoVerification: input.RequiresPhotoVerification,
		ServiceLatitude:           input.ServiceLatitude,
		ServiceLongitude:          input.ServiceLongitude,
		VerificationStatus:        model.VerificationStatusPending,
		CreatedByUserID:           principal.UserID,
	}

	if input.PlateNumber != nil {
		normalized := utils.NormalizePlate(*input.PlateNumber)
		order.PlateNumber = &normalized
	}

	if err := s.workOrderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *WorkOrderService) Get(ctx context.Context, principal model.Principal, id string) (*model.WorkOrder, error) {
	order, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *WorkOrderService) List(ctx context.Context, principal model.Principal, filter repository.WorkOrderListFilter) ([]model.WorkOrder, error) {
	// Mechanics only see their own branch.
	if principal.IsMechanic() {
		branch := principal.Branch
		filter.Branch = &branch
	}
	return s.workOrderRepo.List(ctx, filter)
}

func (s *WorkOrderService) ListAlerts(ctx context.Context, principal model.Principal, workOrderID string) ([]model.FraudAlert, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}

	order, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.alertRepo.ListByWorkOrderID(ctx, order.ID)
}

// Verify is the manual supervisor sign-off on the whole work order.
func (s *WorkOrderService) Verify(ctx context.Context, principal model.Principal, id string) (*model.WorkOrder, error) {
	return s.setStatus(ctx, principal, id, model.VerificationStatusVerified)
}

// Reject marks the work order fraudulent. The status is sticky: no later
// alert recompute may move it back to pending or flagged.
func (s *WorkOrderService) Reject(ctx context.Context, principal model.Principal, id string) (*model.WorkOrder, error) {
	return s.setStatus(ctx, principal, id, model.VerificationStatusRejected)
}

func (s *WorkOrderService) setStatus(ctx context.Context, principal model.Principal, id string, status model.VerificationStatus) (*model.WorkOrder, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}

	order, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.VerificationStatus == model.VerificationStatusRejected && status != model.VerificationStatusRejected {
		return nil, ErrConflict
	}

	order.VerificationStatus = status
	if err := s.workOrderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}
