package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePairKeyOrderIndependence(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"alice-id", "bob-id"},
		{"2f5c8d9e", "1a3b4c5d"},
		{"same", "same"},
		{"", "x"},
	}
	for _, p := range pairs {
		assert.Equal(t, DerivePairKey(p[0], p[1]), DerivePairKey(p[1], p[0]))
	}
}

func TestDerivePairKeySortsLexicographically(t *testing.T) {
	assert.Equal(t, "a:b", DerivePairKey("b", "a"))
	assert.Equal(t, "a:b", DerivePairKey("a", "b"))
	assert.Equal(t, "A:a", DerivePairKey("a", "A"))
	assert.Equal(t, "1:2", DerivePairKey("2", "1"))
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int
		wantPage, wantLimit int
	}{
		{"defaults applied", 0, 0, 1, 20},
		{"negative page clamped", -3, 10, 1, 10},
		{"valid passthrough", 2, 50, 2, 50},
		{"limit capped", 1, 500, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := normalizePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
