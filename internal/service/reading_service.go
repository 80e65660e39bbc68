package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pms-service/internal/fraud"
	"pms-service/internal/model"
	"pms-service/internal/repository"
	"pms-service/internal/utils"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
)

type ReadingService struct {
	readingRepo   *repository.OdometerReadingRepository
	workOrderRepo *repository.WorkOrderRepository
	alertRepo     *repository.FraudAlertRepository
	log           zerolog.Logger
	now           func() time.Time
}

func NewReadingService(
	readingRepo *repository.OdometerReadingRepository,
	workOrderRepo *repository.WorkOrderRepository,
	alertRepo *repository.FraudAlertRepository,
	log zerolog.Logger,
	now func() time.Time,
) *ReadingService {
	if now == nil {
		now = time.Now
	}
	return &ReadingService{
		readingRepo:   readingRepo,
		workOrderRepo: workOrderRepo,
		alertRepo:     alertRepo,
		log:           log,
		now:           now,
	}
}

type SubmitReadingInput struct {
	WorkOrderID string
	Reading     int
	Unit        string
	ReadingDate *string
	PlateNumber *string
	PhotoPath   *string
	RecordedIP  string
}

// Submit records a new odometer reading for the work order's vehicle and
// runs the full fraud pipeline: classification against the prior reading,
// interval compliance, and the work-order alert/state update. Everything
// commits in one transaction under a work-order row lock.
func (s *ReadingService) Submit(ctx context.Context, principal model.Principal, input SubmitReadingInput) (*model.OdometerReading, error) {
	if input.Reading < 0 {
		return nil, fmt.Errorf("%w: reading must be non-negative", ErrInvalidInput)
	}
	unit := input.Unit
	if unit == "" {
		unit = "km"
	}
	if unit != "km" {
		return nil, fmt.Errorf("%w: unsupported unit %q", ErrInvalidInput, unit)
	}

	readingDate := s.now()
	if input.ReadingDate != nil {
		parsed, err := time.Parse(time.RFC3339, *input.ReadingDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid reading date", ErrInvalidInput)
		}
		readingDate = parsed
	}

	order, err := s.workOrderRepo.GetByID(ctx, input.WorkOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	prior, err := s.readingRepo.LatestByVIN(ctx, order.VIN)
	if err != nil {
		return nil, err
	}

	reading := s.buildReading(principal, order, prior, input, readingDate)

	var priorForClassifier *fraud.PriorReading
	if prior != nil {
		priorForClassifier = &fraud.PriorReading{Reading: prior.Reading, Date: prior.ReadingDate}
	}
	verdict := fraud.ClassifyReading(input.Reading, priorForClassifier, s.now())
	if verdict.IsAnomaly() {
		reading.IsAnomaly = true
		reading.AnomalyType = verdict.Type
		reading.AnomalyNotes = verdict.Message
	}

	intervalAlerts := fraud.CheckIntervals(fraud.IntervalInput{
		PMSIntervalKm:       order.PMSIntervalKm,
		TimeIntervalMonths:  order.TimeIntervalMonths,
		DistanceDiff:        reading.DistanceDiff,
		PreviousReadingDate: reading.PreviousReadingDate,
		ReadingDate:         readingDate,
	})

	err = s.workOrderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.workOrderRepo.GetByIDForUpdate(tx, order.ID)
		if err != nil {
			return err
		}

		if err := s.readingRepo.CreateTx(tx, reading); err != nil {
			return err
		}

		detectedAt := s.now()
		var alerts []model.FraudAlert

		if verdict.IsAnomaly() {
			draft := fraud.AlertDraft{
				Type:     model.AlertTypeOdometerAnomaly,
				Severity: verdict.Severity,
				Message:  verdict.Message,
				Data: map[string]any{
					"reading_id":       reading.ID.String(),
					"anomaly_type":     verdict.Type,
					"reading":          reading.Reading,
					"previous_reading": reading.PreviousReading,
					"distance_diff":    reading.DistanceDiff,
					"days_diff":        reading.DaysDiff,
				},
			}
			alerts = append(alerts, draft.ToModel(locked.ID, detectedAt))
		} else {
			locked.OdometerVerified = true
		}

		for _, draft := range intervalAlerts {
			alerts = append(alerts, draft.ToModel(locked.ID, detectedAt))
		}

		if err := s.alertRepo.AppendTx(tx, alerts); err != nil {
			return err
		}

		locked.CurrentMileage = &reading.Reading

		hasAlerts, err := s.alertRepo.HasAnyTx(tx, locked.ID)
		if err != nil {
			return err
		}
		locked.HasFraudAlerts = hasAlerts
		locked.VerificationStatus = fraud.ResolveStatus(locked.VerificationStatus, hasAlerts)

		return s.workOrderRepo.UpdateTx(tx, locked)
	})
	if err != nil {
		return nil, err
	}

	if reading.IsAnomaly {
		s.log.Warn().
			Str("vin", reading.VIN).
			Str("anomaly_type", string(reading.AnomalyType)).
			Int("reading", reading.Reading).
			Msg("anomalous odometer reading recorded")
	}

	return reading, nil
}

func (s *ReadingService) buildReading(
	principal model.Principal,
	order *model.WorkOrder,
	prior *model.OdometerReading,
	input SubmitReadingInput,
	readingDate time.Time,
) *model.OdometerReading {
	reading := &model.OdometerReading{
		VIN:              order.VIN,
		WorkOrderID:      &order.ID,
		Branch:           order.Branch,
		Reading:          input.Reading,
		Unit:             "km",
		ReadingDate:      readingDate,
		AnomalyType:      model.AnomalyTypeNone,
		RecordedByUserID: principal.UserID,
		RecordedIP:       input.RecordedIP,
	}

	if input.PlateNumber != nil {
		normalized := utils.NormalizePlate(*input.PlateNumber)
		reading.PlateNumber = &normalized
	} else {
		reading.PlateNumber = order.PlateNumber
	}

	if input.PhotoPath != nil {
		if path := strings.TrimSpace(*input.PhotoPath); path != "" {
			reading.PhotoPath = &path
			reading.HasPhotoEvidence = true
		}
	}

	if prior != nil {
		reading.PreviousReading = &prior.Reading
		prevDate := prior.ReadingDate
		reading.PreviousReadingDate = &prevDate

		diff := input.Reading - prior.Reading
		reading.DistanceDiff = &diff

		days := int(readingDate.Sub(prevDate).Hours() / 24)
		reading.DaysDiff = &days

		// Average is undefined when both readings fall on the same day.
		if days != 0 {
			avg := float64(diff) / float64(days)
			reading.AvgDailyDistance = &avg
		}
	}

	return reading
}

// ValidationResult is the advisory verdict for a candidate reading that has
// not been committed yet.
type ValidationResult struct {
	VIN             string              `json:"vin"`
	Reading         int                 `json:"reading"`
	PreviousReading *int                `json:"previous_reading"`
	IsAnomaly       bool                `json:"is_anomaly"`
	AnomalyType     model.AnomalyType   `json:"anomaly_type"`
	Severity        model.AlertSeverity `json:"severity,omitempty"`
	Message         string              `json:"message,omitempty"`
}

// Validate runs the same classifier as Submit without persisting anything,
// so callers can warn the user before committing a suspicious reading.
func (s *ReadingService) Validate(ctx context.Context, principal model.Principal, workOrderID string, candidate int) (*ValidationResult, error) {
	if candidate < 0 {
		return nil, fmt.Errorf("%w: reading must be non-negative", ErrInvalidInput)
	}

	order, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	prior, err := s.readingRepo.LatestByVIN(ctx, order.VIN)
	if err != nil {
		return nil, err
	}

	var priorForClassifier *fraud.PriorReading
	result := &ValidationResult{VIN: order.VIN, Reading: candidate, AnomalyType: model.AnomalyTypeNone}
	if prior != nil {
		priorForClassifier = &fraud.PriorReading{Reading: prior.Reading, Date: prior.ReadingDate}
		result.PreviousReading = &prior.Reading
	}

	verdict := fraud.ClassifyReading(candidate, priorForClassifier, s.now())
	if verdict.IsAnomaly() {
		result.IsAnomaly = true
		result.AnomalyType = verdict.Type
		result.Severity = verdict.Severity
		result.Message = verdict.Message
	}

	return result, nil
}

// VerifyReading records the manual supervisor sign-off on a reading.
func (s *ReadingService) VerifyReading(ctx context.Context, principal model.Principal, readingID string) (*model.OdometerReading, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}

	reading, err := s.readingRepo.GetByID(ctx, readingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if reading.IsVerified {
		return nil, ErrConflict
	}

	verifiedAt := s.now()
	reading.IsVerified = true
	reading.VerifiedByUserID = &principal.UserID
	reading.VerifiedAt = &verifiedAt

	if err := s.readingRepo.Verify(ctx, reading); err != nil {
		return nil, err
	}

	return reading, nil
}

func (s *ReadingService) ListByWorkOrderID(ctx context.Context, principal model.Principal, workOrderID string) ([]model.OdometerReading, error) {
	order, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.readingRepo.ListByWorkOrderID(ctx, order.ID)
}

func (s *ReadingService) ListByVIN(ctx context.Context, principal model.Principal, vin string) ([]model.OdometerReading, error) {
	normalized := utils.NormalizeVIN(vin)
	if normalized == "" {
		return nil, fmt.Errorf("%w: invalid vin", ErrInvalidInput)
	}
	return s.readingRepo.ListByVIN(ctx, normalized)
}
