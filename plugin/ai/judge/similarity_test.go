package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"daughter", "daughter", 1.0},
		{"dauter", "daughter", 12.0 / 14.0},
		{"cat", "daughter", 4.0 / 11.0},
		{"abcd", "bcde", 6.0 / 8.0},
		{"niece", "neice", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{{"dauter", "daughter"}, {"rex", "rexy"}, {"springfeld", "springfield"}}
	for _, p := range pairs {
		assert.InDelta(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), 1e-9, "%s/%s", p[0], p[1])
	}
}
