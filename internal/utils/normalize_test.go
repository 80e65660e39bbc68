package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower case", input: "abc123", want: "ABC123"},
		{name: "spaces stripped", input: " ABC 123 ", want: "ABC123"},
		{name: "dashes stripped", input: "ABC-123", want: "ABC123"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizePlate(tt.input))
		})
	}
}

func TestNormalizeVIN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1HGBH41JXMN109186", NormalizeVIN(" 1hgbh41jxmn109186 "))
}
