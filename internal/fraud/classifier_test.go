package fraud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pms-service/internal/model"
)

func TestClassifyReading(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }

	t.Run("first reading is baseline", func(t *testing.T) {
		t.Parallel()
		got := ClassifyReading(50000, nil, now)
		assert.Equal(t, model.AnomalyTypeNone, got.Type)
		assert.False(t, got.IsAnomaly())
	})

	t.Run("rollback is critical", func(t *testing.T) {
		t.Parallel()
		got := ClassifyReading(49000, &PriorReading{Reading: 50000, Date: daysAgo(5)}, now)
		assert.Equal(t, model.AnomalyTypeRollback, got.Type)
		assert.Equal(t, model.AlertSeverityCritical, got.Severity)
		assert.Contains(t, got.Message, "1000 km")
	})

	t.Run("duplicate is warning", func(t *testing.T) {
		t.Parallel()
		got := ClassifyReading(50000, &PriorReading{Reading: 50000, Date: daysAgo(5)}, now)
		assert.Equal(t, model.AnomalyTypeDuplicate, got.Type)
		assert.Equal(t, model.AlertSeverityWarning, got.Severity)
	})

	t.Run("rollback wins over duplicate priority", func(t *testing.T) {
		t.Parallel()
		// A reading below the prior can only ever classify as rollback.
		got := ClassifyReading(1, &PriorReading{Reading: 2, Date: daysAgo(1)}, now)
		assert.Equal(t, model.AnomalyTypeRollback, got.Type)
	})

	t.Run("excessive increase above 500 km per day", func(t *testing.T) {
		t.Parallel()
		got := ClassifyReading(56000, &PriorReading{Reading: 50000, Date: daysAgo(10)}, now)
		assert.Equal(t, model.AnomalyTypeExcessiveIncrease, got.Type)
		assert.Equal(t, model.AlertSeverityWarning, got.Severity)
		assert.Contains(t, got.Message, "600.0 km/day")
	})

	t.Run("average of exactly 500 is not anomalous", func(t *testing.T) {
		t.Parallel()
		got := ClassifyReading(55000, &PriorReading{Reading: 50000, Date: daysAgo(10)}, now)
		assert.Equal(t, model.AnomalyTypeNone, got.Type)
	})

	t.Run("same-day jump skips the average rule", func(t *testing.T) {
		t.Parallel()
		// daysSince = 0: the average is undefined, not infinite.
		got := ClassifyReading(90000, &PriorReading{Reading: 50000, Date: now}, now)
		assert.Equal(t, model.AnomalyTypeNone, got.Type)
	})

	t.Run("normal increase", func(t *testing.T) {
		t.Parallel()
		got := ClassifyReading(50300, &PriorReading{Reading: 50000, Date: daysAgo(200)}, now)
		assert.Equal(t, model.AnomalyTypeNone, got.Type)
	})
}
