package fraud

import (
	"fmt"
	"math"

	"pms-service/internal/geo"
	"pms-service/internal/model"
)

// MaxPhotoDistanceKm is how far a photo's GPS position may be from the
// declared service location before it is flagged.
const MaxPhotoDistanceKm = 1.0

// LocationVerdict is the outcome of verifying one photo against the work
// order's service location. When Checked is false neither coordinate pair was
// complete and no verification was attempted.
type LocationVerdict struct {
	Checked    bool
	OnSite     bool
	DistanceKm float64
	Alert      *AlertDraft
}

// VerifyPhotoLocation compares a photo's extracted GPS coordinates with the
// work order's declared service location. A match marks the work order
// location-verified (sticky once set); a mismatch produces a location alert.
func VerifyPhotoLocation(serviceLat, serviceLng, photoLat, photoLng *float64) LocationVerdict {
	if serviceLat == nil || serviceLng == nil || photoLat == nil || photoLng == nil {
		return LocationVerdict{}
	}

	distance := geo.Haversine(*serviceLat, *serviceLng, *photoLat, *photoLng)
	verdict := LocationVerdict{Checked: true, DistanceKm: distance}

	if distance > MaxPhotoDistanceKm {
		rounded := math.Round(distance*100) / 100
		verdict.Alert = &AlertDraft{
			Type:     model.AlertTypeLocationMismatch,
			Severity: model.AlertSeverityWarning,
			Message:  fmt.Sprintf("photo taken %.2f km away from the service location", rounded),
			Data: map[string]any{
				"distance_km":       rounded,
				"service_latitude":  *serviceLat,
				"service_longitude": *serviceLng,
				"photo_latitude":    *photoLat,
				"photo_longitude":   *photoLng,
			},
		}
		return verdict
	}

	verdict.OnSite = true
	return verdict
}

// PhotoCounts summarizes a work order's current photo evidence.
type PhotoCounts struct {
	Total     int
	HasBefore bool
	HasAfter  bool
}

// RecomputePhotoAlerts regenerates the photo-completeness alerts from the
// current photo set. The caller must first drop existing alerts of the
// regenerable types; running the recompute twice over the same photo set
// yields an identical alert collection.
func RecomputePhotoAlerts(counts PhotoCounts, minimumRequired int, requiresVerification bool) []AlertDraft {
	var alerts []AlertDraft

	if counts.Total < minimumRequired {
		alerts = append(alerts, AlertDraft{
			Type:     model.AlertTypeMissingPhotos,
			Severity: model.AlertSeverityWarning,
			Message:  fmt.Sprintf("insufficient photo evidence: %d of %d required photos uploaded", counts.Total, minimumRequired),
			Data: map[string]any{
				"photo_count": counts.Total,
				"required":    minimumRequired,
			},
		})
	}

	if requiresVerification && (!counts.HasBefore || !counts.HasAfter) {
		alerts = append(alerts, AlertDraft{
			Type:     model.AlertTypeMissingBeforeAfter,
			Severity: model.AlertSeverityWarning,
			Message:  "before/after photo evidence incomplete",
			Data: map[string]any{
				"has_before": counts.HasBefore,
				"has_after":  counts.HasAfter,
			},
		})
	}

	return alerts
}

// ResolveStatus derives the next verification status after an alert-state
// change. REJECTED is a manual decision and is never auto-overwritten; an
// order whose alerts have all been resolved falls back from FLAGGED to
// PENDING rather than to VERIFIED.
func ResolveStatus(current model.VerificationStatus, hasAlerts bool) model.VerificationStatus {
	if current == model.VerificationStatusRejected {
		return current
	}
	if hasAlerts {
		return model.VerificationStatusFlagged
	}
	if current == model.VerificationStatusFlagged {
		return model.VerificationStatusPending
	}
	return current
}
