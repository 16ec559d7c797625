package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCardNumber(t *testing.T) {
	n42, zero := 42, 0
	tests := []struct {
		name   string
		year   int
		wilaya string
		member *int
		want   string
	}{
		{"single digit wilaya", 2026, "7", &n42, "2026 0700 0000 0042"},
		{"nil member number", 2026, "16", nil, "2026 1600 0000 0001"},
		{"zero member number", 2025, "31", &zero, "2025 3100 0000 0001"},
		{"empty wilaya", 2026, "", &n42, "2026 0000 0000 0042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCardNumber(tt.year, tt.wilaya, tt.member))
		})
	}
}
