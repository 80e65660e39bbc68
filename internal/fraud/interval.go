package fraud

import (
	"fmt"
	"time"

	"pms-service/internal/model"
)

const (
	// IntervalToleranceKm is added to the configured PMS interval before a
	// missed-interval alert fires.
	IntervalToleranceKm = 1000

	// DefaultTimeIntervalMonths applies when a work order has no explicit
	// time-based interval configured.
	DefaultTimeIntervalMonths = 6
)

// IntervalInput carries the work order's interval policy and the newly
// created reading's derived history fields. Nil fields mean "not configured"
// or "no prior reading" and make the corresponding check not applicable.
type IntervalInput struct {
	PMSIntervalKm       *int
	TimeIntervalMonths  *int
	DistanceDiff        *int
	PreviousReadingDate *time.Time
	ReadingDate         time.Time
}

// CheckIntervals runs the mileage-based and time-based missed-service checks.
// The two checks are independent and may both fire for the same reading;
// resulting alerts are append-only audit history, never deduplicated.
func CheckIntervals(in IntervalInput) []AlertDraft {
	var alerts []AlertDraft

	if in.PMSIntervalKm != nil && in.DistanceDiff != nil {
		threshold := *in.PMSIntervalKm + IntervalToleranceKm
		if *in.DistanceDiff > threshold {
			kmOver := *in.DistanceDiff - threshold
			alerts = append(alerts, AlertDraft{
				Type:     model.AlertTypeMissedPMSInterval,
				Severity: model.AlertSeverityWarning,
				Message: fmt.Sprintf("PMS interval missed: %d km driven against a %d km interval (%d km over tolerance)",
					*in.DistanceDiff, *in.PMSIntervalKm, kmOver),
				Data: map[string]any{
					"interval_km":     *in.PMSIntervalKm,
					"actual_distance": *in.DistanceDiff,
					"km_over":         kmOver,
				},
			})
		}
	}

	if in.PreviousReadingDate != nil {
		limit := DefaultTimeIntervalMonths
		if in.TimeIntervalMonths != nil {
			limit = *in.TimeIntervalMonths
		}

		gap := monthsBetween(*in.PreviousReadingDate, in.ReadingDate)
		if gap > limit {
			alerts = append(alerts, AlertDraft{
				Type:     model.AlertTypeMissedTimeInterval,
				Severity: model.AlertSeverityWarning,
				Message: fmt.Sprintf("time interval missed: %d months since previous reading (limit %d months)",
					gap, limit),
				Data: map[string]any{
					"months_delayed":        gap - limit,
					"months_elapsed":        gap,
					"previous_reading_date": in.PreviousReadingDate.Format("2006-01-02"),
					"reading_date":          in.ReadingDate.Format("2006-01-02"),
				},
			})
		}
	}

	return alerts
}

// monthsBetween counts full calendar months elapsed between two dates.
func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
