package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms-service/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestVerifyPhotoLocation(t *testing.T) {
	t.Parallel()

	serviceLat, serviceLng := 14.5547, 121.0244

	t.Run("missing service location skips verification", func(t *testing.T) {
		t.Parallel()
		verdict := VerifyPhotoLocation(nil, nil, floatPtr(14.5547), floatPtr(121.0244))
		assert.False(t, verdict.Checked)
		assert.Nil(t, verdict.Alert)
	})

	t.Run("missing photo coordinates skips verification", func(t *testing.T) {
		t.Parallel()
		verdict := VerifyPhotoLocation(floatPtr(serviceLat), floatPtr(serviceLng), nil, floatPtr(121.0244))
		assert.False(t, verdict.Checked)
		assert.Nil(t, verdict.Alert)
	})

	t.Run("same point verifies on site", func(t *testing.T) {
		t.Parallel()
		verdict := VerifyPhotoLocation(floatPtr(serviceLat), floatPtr(serviceLng), floatPtr(serviceLat), floatPtr(serviceLng))
		assert.True(t, verdict.Checked)
		assert.True(t, verdict.OnSite)
		assert.Zero(t, verdict.DistanceKm)
		assert.Nil(t, verdict.Alert)
	})

	t.Run("just inside the one km limit", func(t *testing.T) {
		t.Parallel()
		// 0.00898 degrees of latitude is roughly 0.999 km.
		verdict := VerifyPhotoLocation(floatPtr(serviceLat), floatPtr(serviceLng), floatPtr(serviceLat+0.00898), floatPtr(serviceLng))
		require.True(t, verdict.Checked)
		assert.True(t, verdict.OnSite)
		assert.Nil(t, verdict.Alert)
	})

	t.Run("just outside the one km limit", func(t *testing.T) {
		t.Parallel()
		// 0.00900 degrees of latitude is roughly 1.0008 km.
		verdict := VerifyPhotoLocation(floatPtr(serviceLat), floatPtr(serviceLng), floatPtr(serviceLat+0.009), floatPtr(serviceLng))
		require.True(t, verdict.Checked)
		assert.False(t, verdict.OnSite)
		require.NotNil(t, verdict.Alert)
		assert.Equal(t, model.AlertTypeLocationMismatch, verdict.Alert.Type)
		assert.Equal(t, 1.0, verdict.Alert.Data["distance_km"])
	})

	t.Run("far away mismatch carries both coordinate pairs", func(t *testing.T) {
		t.Parallel()
		verdict := VerifyPhotoLocation(floatPtr(serviceLat), floatPtr(serviceLng), floatPtr(14.676), floatPtr(121.0437))
		require.NotNil(t, verdict.Alert)
		assert.Equal(t, serviceLat, verdict.Alert.Data["service_latitude"])
		assert.Equal(t, 14.676, verdict.Alert.Data["photo_latitude"])
	})
}

func TestRecomputePhotoAlerts(t *testing.T) {
	t.Parallel()

	t.Run("complete evidence yields no alerts", func(t *testing.T) {
		t.Parallel()
		alerts := RecomputePhotoAlerts(PhotoCounts{Total: 4, HasBefore: true, HasAfter: true}, 4, true)
		assert.Empty(t, alerts)
	})

	t.Run("photo count below minimum", func(t *testing.T) {
		t.Parallel()
		alerts := RecomputePhotoAlerts(PhotoCounts{Total: 2, HasBefore: true, HasAfter: true}, 4, true)
		require.Len(t, alerts, 1)
		assert.Equal(t, model.AlertTypeMissingPhotos, alerts[0].Type)
		assert.Equal(t, 2, alerts[0].Data["photo_count"])
		assert.Equal(t, 4, alerts[0].Data["required"])
	})

	t.Run("missing after photo", func(t *testing.T) {
		t.Parallel()
		alerts := RecomputePhotoAlerts(PhotoCounts{Total: 5, HasBefore: true, HasAfter: false}, 4, true)
		require.Len(t, alerts, 1)
		assert.Equal(t, model.AlertTypeMissingBeforeAfter, alerts[0].Type)
		assert.Equal(t, true, alerts[0].Data["has_before"])
		assert.Equal(t, false, alerts[0].Data["has_after"])
	})

	t.Run("before after not required", func(t *testing.T) {
		t.Parallel()
		alerts := RecomputePhotoAlerts(PhotoCounts{Total: 5}, 4, false)
		assert.Empty(t, alerts)
	})

	t.Run("both alerts fire together", func(t *testing.T) {
		t.Parallel()
		alerts := RecomputePhotoAlerts(PhotoCounts{Total: 0}, 3, true)
		require.Len(t, alerts, 2)
		assert.Equal(t, model.AlertTypeMissingPhotos, alerts[0].Type)
		assert.Equal(t, model.AlertTypeMissingBeforeAfter, alerts[1].Type)
	})

	t.Run("recompute is deterministic", func(t *testing.T) {
		t.Parallel()
		counts := PhotoCounts{Total: 1, HasBefore: true}
		first := RecomputePhotoAlerts(counts, 3, true)
		second := RecomputePhotoAlerts(counts, 3, true)
		assert.Equal(t, first, second)
	})
}

func TestResolveStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   model.VerificationStatus
		hasAlerts bool
		want      model.VerificationStatus
	}{
		{name: "pending with alerts flags", current: model.VerificationStatusPending, hasAlerts: true, want: model.VerificationStatusFlagged},
		{name: "flagged with no alerts returns to pending", current: model.VerificationStatusFlagged, hasAlerts: false, want: model.VerificationStatusPending},
		{name: "flagged stays flagged while alerts remain", current: model.VerificationStatusFlagged, hasAlerts: true, want: model.VerificationStatusFlagged},
		{name: "pending with no alerts stays pending", current: model.VerificationStatusPending, hasAlerts: false, want: model.VerificationStatusPending},
		{name: "verified with alerts flags", current: model.VerificationStatusVerified, hasAlerts: true, want: model.VerificationStatusFlagged},
		{name: "verified with no alerts is untouched", current: model.VerificationStatusVerified, hasAlerts: false, want: model.VerificationStatusVerified},
		{name: "rejected is sticky with alerts", current: model.VerificationStatusRejected, hasAlerts: true, want: model.VerificationStatusRejected},
		{name: "rejected is sticky without alerts", current: model.VerificationStatusRejected, hasAlerts: false, want: model.VerificationStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolveStatus(tt.current, tt.hasAlerts))
		})
	}
}
