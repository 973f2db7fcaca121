package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		region   string
		expected string
	}{
		{"already E.164", "+16502530000", "", "+16502530000"},
		{"international with spaces", "+44 20 7031 3000", "", "+442070313000"},
		{"international with dashes", "+7 912-345-67-89", "", "+79123456789"},
		{"national with region", "(650) 253-0000", "US", "+16502530000"},
		{"lowercase region", "8 912 345 67 89", "ru", "+79123456789"},
		{"surrounding whitespace", "  +16502530000 ", "", "+16502530000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
	}{
		{"empty", "", ""},
		{"letters", "not a phone", ""},
		{"national without region", "6502530000", ""},
		{"too short", "+1 23", ""},
		{"unassigned country code", "+999 123 456 789", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, tt.region)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.False(t, IsValid(tt.raw, tt.region))
		})
	}
}
