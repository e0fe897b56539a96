package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Gold", "gold"},
		{"192 mm", "192mm"},
		{"192-mm", "192mm"},
		{"  Black - Matt ", "blackmatt"},
		{"ZŁOTY", "złoty"},
		{"128\tmm", "128mm"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Gold", "192 mm", "192-mm", "a - b - c", "", "Chrom Satyna", "--"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("192 mm", "192-MM"))
	assert.False(t, Equal("192 mm", "160 mm"))
}
