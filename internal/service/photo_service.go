package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pms-service/internal/exifmeta"
	"pms-service/internal/fraud"
	"pms-service/internal/model"
	"pms-service/internal/repository"
	"pms-service/internal/storage"
)

var allowedPhotoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var validPhotoTypes = map[model.PhotoType]bool{
	model.PhotoTypeBefore:     true,
	model.PhotoTypeAfter:      true,
	model.PhotoTypeDuring:     true,
	model.PhotoTypeDamage:     true,
	model.PhotoTypeCompletion: true,
}

type PhotoService struct {
	photoRepo     *repository.WorkOrderPhotoRepository
	workOrderRepo *repository.WorkOrderRepository
	alertRepo     *repository.FraudAlertRepository
	extractor     *exifmeta.Extractor
	store         *storage.LocalStore
	log           zerolog.Logger
	now           func() time.Time
}

func NewPhotoService(
	photoRepo *repository.WorkOrderPhotoRepository,
	workOrderRepo *repository.WorkOrderRepository,
	alertRepo *repository.FraudAlertRepository,
	extractor *exifmeta.Extractor,
	store *storage.LocalStore,
	log zerolog.Logger,
	now func() time.Time,
) *PhotoService {
	if now == nil {
		now = time.Now
	}
	return &PhotoService{
		photoRepo:     photoRepo,
		workOrderRepo: workOrderRepo,
		alertRepo:     alertRepo,
		extractor:     extractor,
		store:         store,
		log:           log,
		now:           now,
	}
}

type UploadPhotoInput struct {
	WorkOrderID  string
	PhotoType    string
	OriginalName string
	MimeType     string
	Data         []byte
	UploadedIP   string
	UserAgent    string
}

// Upload stores the photo, extracts EXIF metadata (best effort), verifies the
// capture location against the work order's service location, and recomputes
// the photo-completeness alerts. EXIF or GPS failures never abort the upload.
func (s *PhotoService) Upload(ctx context.Context, principal model.Principal, input UploadPhotoInput) (*model.WorkOrderPhoto, error) {
	photoType := model.PhotoType(input.PhotoType)
	if !validPhotoTypes[photoType] {
		return nil, fmt.Errorf("%w: invalid photo type %q", ErrInvalidInput, input.PhotoType)
	}
	if !allowedPhotoMimeTypes[input.MimeType] {
		return nil, fmt.Errorf("%w: unsupported mime type %q", ErrInvalidInput, input.MimeType)
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if limit := s.store.MaxSizeBytes(); int64(len(input.Data)) > limit {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, limit)
	}

	order, err := s.workOrderRepo.GetByID(ctx, input.WorkOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	meta := s.extractor.Extract(input.Data, input.MimeType)

	filePath, err := s.store.Save(input.Data, input.OriginalName)
	if err != nil {
		return nil, err
	}

	photo := &model.WorkOrderPhoto{
		WorkOrderID:      order.ID,
		FilePath:         filePath,
		OriginalName:     input.OriginalName,
		FileSize:         int64(len(input.Data)),
		MimeType:         input.MimeType,
		PhotoType:        photoType,
		GPSLatitude:      meta.Latitude,
		GPSLongitude:     meta.Longitude,
		CapturedAt:       meta.CapturedAt,
		CameraMake:       meta.CameraMake,
		CameraModel:      meta.CameraModel,
		HasGPSData:       meta.HasGPS(),
		HasExifData:      meta.HasExif(),
		UploadedByUserID: principal.UserID,
		UploadedIP:       input.UploadedIP,
		UserAgent:        input.UserAgent,
	}

	verdict := fraud.VerifyPhotoLocation(order.ServiceLatitude, order.ServiceLongitude, meta.Latitude, meta.Longitude)

	err = s.workOrderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.workOrderRepo.GetByIDForUpdate(tx, order.ID)
		if err != nil {
			return err
		}

		if err := s.photoRepo.CreateTx(tx, photo); err != nil {
			return err
		}

		detectedAt := s.now()

		if verdict.Alert != nil {
			alert := verdict.Alert.ToModel(locked.ID, detectedAt)
			if err := s.alertRepo.AppendTx(tx, []model.FraudAlert{alert}); err != nil {
				return err
			}
		} else if verdict.OnSite {
			// Sticky once any single photo matches; later mismatches are
			// alerted independently and do not reset it.
			locked.LocationVerified = true
		}

		return s.recomputePhotoStateTx(tx, locked, detectedAt)
	})
	if err != nil {
		if removeErr := s.store.Remove(filePath); removeErr != nil {
			s.log.Warn().Err(removeErr).Str("path", filePath).Msg("failed to clean up orphaned photo file")
		}
		return nil, err
	}

	if !meta.HasExif() {
		s.log.Info().
			Str("work_order_id", order.ID.String()).
			Str("mime_type", input.MimeType).
			Msg("photo uploaded without exif metadata")
	}

	return photo, nil
}

// Delete removes a photo and recomputes the parent work order's
// photo-completeness alerts in the same transaction.
func (s *PhotoService) Delete(ctx context.Context, principal model.Principal, photoID string) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err = s.workOrderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.workOrderRepo.GetByIDForUpdate(tx, photo.WorkOrderID)
		if err != nil {
			return err
		}

		if err := s.photoRepo.DeleteTx(tx, photo.ID); err != nil {
			return err
		}

		return s.recomputePhotoStateTx(tx, locked, s.now())
	})
	if err != nil {
		return err
	}

	if err := s.store.Remove(photo.FilePath); err != nil {
		s.log.Warn().Err(err).Str("path", photo.FilePath).Msg("failed to remove photo file")
	}

	return nil
}

// recomputePhotoStateTx is the idempotent completeness recompute: stale
// regenerable alerts are dropped, fresh ones regenerated from the current
// photo set, and the derived work-order fields updated, all under the row
// lock already held by the caller.
func (s *PhotoService) recomputePhotoStateTx(tx *gorm.DB, order *model.WorkOrder, detectedAt time.Time) error {
	if err := s.alertRepo.DeleteRegenerableTx(tx, order.ID); err != nil {
		return err
	}

	counts, err := s.photoRepo.CountsTx(tx, order.ID)
	if err != nil {
		return err
	}

	drafts := fraud.RecomputePhotoAlerts(fraud.PhotoCounts{
		Total:     counts.Total,
		HasBefore: counts.HasBefore,
		HasAfter:  counts.HasAfter,
	}, order.MinimumPhotosRequired, order.RequiresPhotoVerification)

	alerts := make([]model.FraudAlert, 0, len(drafts))
	for _, draft := range drafts {
		alerts = append(alerts, draft.ToModel(order.ID, detectedAt))
	}
	if err := s.alertRepo.AppendTx(tx, alerts); err != nil {
		return err
	}

	hasAlerts, err := s.alertRepo.HasAnyTx(tx, order.ID)
	if err != nil {
		return err
	}
	order.HasFraudAlerts = hasAlerts
	order.VerificationStatus = fraud.ResolveStatus(order.VerificationStatus, hasAlerts)

	return s.workOrderRepo.UpdateTx(tx, order)
}

func (s *PhotoService) ListByWorkOrderID(ctx context.Context, principal model.Principal, workOrderID string) ([]model.WorkOrderPhoto, error) {
	order, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.photoRepo.ListByWorkOrderID(ctx, order.ID)
}
