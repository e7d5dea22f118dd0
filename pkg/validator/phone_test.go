package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone_Valid(t *testing.T) {
	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"0771234567", "0771234567", "Standard format"},
		{" 0771234567 ", "0771234567", "Surrounding spaces"},
		{"077 123 4567", "0771234567", "With spaces"},
		{"077-123-4567", "0771234567", "With dashes"},
		{"077.123.4567", "0771234567", "With dots"},
		{"(077) 123 4567", "0771234567", "With parentheses"},
		{"0701234567", "0701234567", "Mobitel 070"},
		{"0741234567", "0741234567", "Dialog 074"},
		{"0791234567", "0791234567", "Dialog 079"},
		{"94771234567", "0771234567", "With country code"},
		{"+94 77 123 4567", "0771234567", "With plus country code"},
		{"+44 20 7946 0958", "+442079460958", "International"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			normalized, err := NormalizePhone(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, normalized)
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"   ", ErrEmptyPhone, "Blank"},
		{"123", ErrInvalidLength, "Too short"},
		{"07712345678", ErrInvalidLength, "Too long"},
		{"0731234567", ErrInvalidPrefix, "Invalid prefix 073"},
		{"0112345678", ErrInvalidPrefix, "Landline"},
		{"077123456a", ErrInvalidFormat, "Contains letters"},
		{"07+71234567", ErrInvalidFormat, "Plus inside number"},
		{"+1234", ErrInvalidLength, "International too short"},
		{"+1234567890123456", ErrInvalidLength, "International too long"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizePhone(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
