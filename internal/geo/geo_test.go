package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	t.Run("same point is zero", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Haversine(14.5547, 121.0244, 14.5547, 121.0244))
	})

	t.Run("known distance", func(t *testing.T) {
		t.Parallel()
		// Manila to Quezon City, roughly 11 km.
		d := Haversine(14.5995, 120.9842, 14.6760, 121.0437)
		assert.InDelta(t, 10.7, d, 0.5)
	})

	t.Run("symmetry", func(t *testing.T) {
		t.Parallel()
		a := Haversine(14.5547, 121.0244, 14.6760, 121.0437)
		b := Haversine(14.6760, 121.0437, 14.5547, 121.0244)
		assert.InDelta(t, a, b, 1e-12)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		t.Parallel()
		// 1 degree of latitude is about 111.2 km on the sphere model.
		d := Haversine(0, 0, 1, 0)
		assert.InDelta(t, 111.2, d, 0.3)
	})
}

func TestDMSToDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deg        string
		min        string
		sec        string
		hemisphere string
		want       float64
	}{
		{name: "south is negative", deg: "10", min: "30", sec: "0", hemisphere: "S", want: -10.5},
		{name: "north is positive", deg: "10", min: "30", sec: "0", hemisphere: "N", want: 10.5},
		{name: "west is negative", deg: "121", min: "1", sec: "27.84", hemisphere: "W", want: -121.0244},
		{name: "east is positive", deg: "121", min: "1", sec: "27.84", hemisphere: "E", want: 121.0244},
		{name: "rational components", deg: "14/1", min: "33/1", sec: "1692/100", hemisphere: "N", want: 14.5547},
		{name: "malformed fraction yields zero component", deg: "abc/def", min: "30", sec: "0", hemisphere: "N", want: 0.5},
		{name: "zero denominator yields zero component", deg: "10/0", min: "30", sec: "0", hemisphere: "N", want: 0.5},
		{name: "empty components", deg: "", min: "", sec: "", hemisphere: "N", want: 0},
		{name: "unknown hemisphere keeps sign", deg: "10", min: "30", sec: "0", hemisphere: "", want: 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DMSToDecimal(tt.deg, tt.min, tt.sec, tt.hemisphere)
			assert.InDelta(t, tt.want, got, 1e-7)
		})
	}
}
