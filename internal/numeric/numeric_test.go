package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		places int32
		want   float64
	}{
		{"four places", 432.86256, 4, 432.8626},
		{"half to even down", 0.125, 2, 0.12},
		{"half to even up", 0.375, 2, 0.38},
		{"negative", -1078.66, 1, -1078.7},
		{"integer", 220, 2, 220},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.v, tt.places))
		})
	}

	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, Nullable(math.NaN(), 4))
	assert.Nil(t, Nullable(math.Inf(-1), 4))
	v := Nullable(1.23456, 4)
	if assert.NotNil(t, v) {
		assert.Equal(t, 1.2346, *v)
	}
}

func TestQuantile(t *testing.T) {
	data := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, Quantile(data, 0))
	assert.Equal(t, 1.75, Quantile(data, 0.25))
	assert.Equal(t, 2.5, Quantile(data, 0.5))
	assert.Equal(t, 3.25, Quantile(data, 0.75))
	assert.Equal(t, 4.0, Quantile(data, 1))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.3))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestPresentAndMinMax(t *testing.T) {
	xs := []float64{3, math.NaN(), -1, 8}

	assert.Equal(t, []float64{3, -1, 8}, Present(xs))
	lo, hi := MinMax(Present(xs))
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
	assert.Equal(t, []float64{-1, 3, 8}, Sorted(Present(xs)))
}
