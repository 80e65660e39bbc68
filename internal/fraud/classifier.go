// Package fraud holds the detection core for preventive-maintenance service
// records: odometer anomaly classification, missed-interval checks, photo
// evidence verification and the photo-completeness alert recompute. All
// functions are pure; the service layer applies their results in a single
// work-order transaction.
package fraud

import (
	"fmt"
	"time"

	"pms-service/internal/model"
)

// MaxDailyDistanceKm is the plausibility ceiling for average daily mileage.
const MaxDailyDistanceKm = 500.0

// PriorReading is the vehicle's most recent recorded observation.
type PriorReading struct {
	Reading int
	Date    time.Time
}

// Classification is the verdict for a single candidate reading.
type Classification struct {
	Type     model.AnomalyType
	Severity model.AlertSeverity
	Message  string
}

func (c Classification) IsAnomaly() bool {
	return c.Type != model.AnomalyTypeNone
}

// ClassifyReading classifies a new odometer reading against the vehicle's
// prior one. Rules apply in fixed priority order and the first match wins:
// rollback, duplicate, excessive daily increase. A vehicle's first reading is
// always accepted as the baseline. This is the single canonical classifier,
// used both at submission time and by the pre-submission validate endpoint.
func ClassifyReading(newReading int, prior *PriorReading, now time.Time) Classification {
	if prior == nil {
		return Classification{Type: model.AnomalyTypeNone}
	}

	if newReading < prior.Reading {
		return Classification{
			Type:     model.AnomalyTypeRollback,
			Severity: model.AlertSeverityCritical,
			Message:  fmt.Sprintf("odometer rollback: reading dropped by %d km", prior.Reading-newReading),
		}
	}

	if newReading == prior.Reading {
		return Classification{
			Type:     model.AnomalyTypeDuplicate,
			Severity: model.AlertSeverityWarning,
			Message:  fmt.Sprintf("duplicate reading: %d km already recorded", newReading),
		}
	}

	daysSince := daysBetween(prior.Date, now)
	if daysSince > 0 {
		avg := float64(newReading-prior.Reading) / float64(daysSince)
		if avg > MaxDailyDistanceKm {
			return Classification{
				Type:     model.AnomalyTypeExcessiveIncrease,
				Severity: model.AlertSeverityWarning,
				Message: fmt.Sprintf("excessive increase: %.1f km/day average over %d days (limit %.0f km/day)",
					avg, daysSince, MaxDailyDistanceKm),
			}
		}
	}

	return Classification{Type: model.AnomalyTypeNone}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
