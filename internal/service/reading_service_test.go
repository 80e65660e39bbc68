package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms-service/internal/model"
)

func newTestReadingService(now time.Time) *ReadingService {
	return NewReadingService(nil, nil, nil, zerolog.Nop(), func() time.Time { return now })
}

func TestBuildReading(t *testing.T) {
	t.Parallel()

	readingDate := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	s := newTestReadingService(readingDate)

	principal := model.Principal{UserID: uuid.New(), Branch: "MNL", Role: model.RoleMechanic}
	plate := "ABC123"
	order := &model.WorkOrder{
		ID:          uuid.New(),
		VIN:         "1HGBH41JXMN109186",
		Branch:      "MNL",
		PlateNumber: &plate,
	}

	t.Run("first reading has no derived fields", func(t *testing.T) {
		t.Parallel()

		reading := s.buildReading(principal, order, nil, SubmitReadingInput{Reading: 10000}, readingDate)

		assert.Nil(t, reading.PreviousReading)
		assert.Nil(t, reading.DistanceDiff)
		assert.Nil(t, reading.DaysDiff)
		assert.Nil(t, reading.AvgDailyDistance)
		require.NotNil(t, reading.PlateNumber)
		assert.Equal(t, "ABC123", *reading.PlateNumber)
		assert.Equal(t, principal.UserID, reading.RecordedByUserID)
	})

	t.Run("derived fields against the prior reading", func(t *testing.T) {
		t.Parallel()

		prior := &model.OdometerReading{Reading: 10000, ReadingDate: readingDate.AddDate(0, 0, -10)}
		reading := s.buildReading(principal, order, prior, SubmitReadingInput{Reading: 10300}, readingDate)

		require.NotNil(t, reading.PreviousReading)
		assert.Equal(t, 10000, *reading.PreviousReading)
		require.NotNil(t, reading.DistanceDiff)
		assert.Equal(t, 300, *reading.DistanceDiff)
		require.NotNil(t, reading.DaysDiff)
		assert.Equal(t, 10, *reading.DaysDiff)
		require.NotNil(t, reading.AvgDailyDistance)
		assert.InDelta(t, 30.0, *reading.AvgDailyDistance, 1e-9)
	})

	t.Run("same-day prior leaves average unset", func(t *testing.T) {
		t.Parallel()

		prior := &model.OdometerReading{Reading: 10000, ReadingDate: readingDate.Add(-2 * time.Hour)}
		reading := s.buildReading(principal, order, prior, SubmitReadingInput{Reading: 10050}, readingDate)

		require.NotNil(t, reading.DaysDiff)
		assert.Equal(t, 0, *reading.DaysDiff)
		assert.Nil(t, reading.AvgDailyDistance)
	})

	t.Run("submitted plate is normalized over the order's", func(t *testing.T) {
		t.Parallel()

		submitted := "xyz 789"
		reading := s.buildReading(principal, order, nil, SubmitReadingInput{Reading: 10000, PlateNumber: &submitted}, readingDate)

		require.NotNil(t, reading.PlateNumber)
		assert.Equal(t, "XYZ789", *reading.PlateNumber)
	})
}

func TestBuildReadingPhotoEvidence(t *testing.T) {
	t.Parallel()

	readingDate := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	s := newTestReadingService(readingDate)

	principal := model.Principal{UserID: uuid.New(), Role: model.RoleMechanic}
	order := &model.WorkOrder{ID: uuid.New(), VIN: "1HGBH41JXMN109186", Branch: "MNL"}

	t.Run("photo path marks evidence", func(t *testing.T) {
		t.Parallel()

		path := "uploads/odometer-1.jpg"
		reading := s.buildReading(principal, order, nil, SubmitReadingInput{Reading: 10000, PhotoPath: &path}, readingDate)

		require.NotNil(t, reading.PhotoPath)
		assert.Equal(t, "uploads/odometer-1.jpg", *reading.PhotoPath)
		assert.True(t, reading.HasPhotoEvidence)
	})

	t.Run("blank path is ignored", func(t *testing.T) {
		t.Parallel()

		blank := "   "
		reading := s.buildReading(principal, order, nil, SubmitReadingInput{Reading: 10000, PhotoPath: &blank}, readingDate)

		assert.Nil(t, reading.PhotoPath)
		assert.False(t, reading.HasPhotoEvidence)
	})

	t.Run("absent path leaves evidence unset", func(t *testing.T) {
		t.Parallel()

		reading := s.buildReading(principal, order, nil, SubmitReadingInput{Reading: 10000}, readingDate)

		assert.Nil(t, reading.PhotoPath)
		assert.False(t, reading.HasPhotoEvidence)
	})
}
