package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		expected string
	}{
		{"empty previous seeds the sequence", "", "INV-10260001"},
		{"digitless previous seeds the sequence", "INV-", "INV-10260001"},
		{"prefixed previous increments", "INV-10260001", "INV-10260002"},
		{"bare digits increment", "10260007", "INV-10260008"},
		{"mixed noise is stripped", "inv/1026-0001", "INV-10260002"},
		{"below-seed previous still increments", "INV-42", "INV-43"},
		{"migrated pre-seed sequence continues", "INV-20250099", "INV-20250100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextInvoiceNumber(tt.previous))
		})
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-10260001", FormatInvoiceNumber(10260001))
}

func TestNumberingScope_IsValid(t *testing.T) {
	assert.True(t, NumberingScopeTenant.IsValid())
	assert.True(t, NumberingScopeGlobal.IsValid())
	assert.False(t, NumberingScope("per-user").IsValid())
}
