package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMSE(t *testing.T) {
	y := []float64{1, 2, 3}
	assert.Equal(t, 0.0, MSE(y, y))
	assert.InDelta(t, 1.0, MSE(y, []float64{2, 3, 4}), 1e-12)
}

func TestRMSE(t *testing.T) {
	y := []float64{0, 0, 0, 0}
	pred := []float64{2, -2, 2, -2}
	assert.InDelta(t, 2.0, RMSE(y, pred), 1e-12)
	assert.InDelta(t, math.Sqrt(MSE(y, pred)), RMSE(y, pred), 1e-12)
}

func TestR2(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, R2(y, y), 1e-12)

	mean := []float64{3, 3, 3, 3, 3}
	assert.InDelta(t, 0.0, R2(mean, y), 1e-12)

	worse := []float64{5, 5, 5, 5, 5}
	assert.Less(t, R2(worse, y), 0.0)
}

func TestR2TruthIsSecondArgument(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	mean := []float64{3, 3, 3, 3, 3}

	// Predicting the truth's mean scores exactly zero; swapping the
	// arguments makes the truth series constant and the score diverges.
	assert.InDelta(t, 0.0, R2(mean, y), 1e-12)
	assert.True(t, math.IsInf(R2(y, mean), -1))
}
