package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arSeries(n int) []float64 {
	y := make([]float64, n)
	y[0] = 1
	for i := 1; i < n; i++ {
		y[i] = 0.7*y[i-1] + math.Sin(float64(i))*0.1
	}
	return y
}

func TestArimaRegressorNotFitted(t *testing.T) {
	m := NewArimaRegressor(1, 0, 0)
	_, err := m.Predict([][]float64{{0}})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = m.Update(1.0)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestArimaRegressorFitAndPredict(t *testing.T) {
	y := arSeries(80)
	m := NewArimaRegressor(1, 0, 0)
	require.NoError(t, m.Fit(nil, y))

	// Each feature row requests one forecast step.
	pred, err := m.Predict([][]float64{{0}, {0}, {0}})
	require.NoError(t, err)
	assert.Len(t, pred, 3)
	for _, v := range pred {
		assert.False(t, math.IsNaN(v))
	}
}

func TestArimaRegressorPredictLeavesHistoryAlone(t *testing.T) {
	y := arSeries(60)
	m := NewArimaRegressor(1, 0, 0)
	require.NoError(t, m.Fit(nil, y))

	before := m.History()
	_, err := m.Predict(make([][]float64, 5))
	require.NoError(t, err)
	assert.Equal(t, before, m.History())
}

func TestArimaRegressorUpdateGrowsHistory(t *testing.T) {
	y := arSeries(60)
	m := NewArimaRegressor(1, 0, 0)
	require.NoError(t, m.Fit(nil, y))

	obs := []float64{0.5, 0.4, 0.3}
	for _, v := range obs {
		_, err := m.Update(v)
		require.NoError(t, err)
	}
	assert.Equal(t, append(append([]float64(nil), y...), obs...), m.History())
}

func TestArimaRegressorUpdateForecastPredatesObservation(t *testing.T) {
	y := arSeries(60)

	m := NewArimaRegressor(1, 0, 0)
	require.NoError(t, m.Fit(nil, y))
	want, err := m.Predict([][]float64{{0}})
	require.NoError(t, err)

	got, err := m.Update(12345)
	require.NoError(t, err)
	assert.Equal(t, want[0], got)
}

func TestArimaRegressorUpdateBatchMatchesScalarLoop(t *testing.T) {
	y := arSeries(60)
	obs := []float64{0.2, 0.1, -0.1, 0.05}

	batch := NewArimaRegressor(1, 0, 0)
	require.NoError(t, batch.Fit(nil, y))
	got, err := batch.UpdateBatch(obs)
	require.NoError(t, err)

	scalar := NewArimaRegressor(1, 0, 0)
	require.NoError(t, scalar.Fit(nil, y))
	want := make([]float64, len(obs))
	for i, v := range obs {
		want[i], err = scalar.Update(v)
		require.NoError(t, err)
	}

	assert.Equal(t, want, got)
	assert.Equal(t, scalar.History(), batch.History())
}

func TestArimaRegressorFitCopiesTargets(t *testing.T) {
	y := arSeries(60)
	m := NewArimaRegressor(1, 0, 0)
	require.NoError(t, m.Fit(nil, y))

	y[0] = 1e9
	assert.NotEqual(t, 1e9, m.History()[0])
}

func TestArimaRegressorSummary(t *testing.T) {
	m := NewArimaRegressor(1, 0, 1)
	assert.Nil(t, m.Summary())

	require.NoError(t, m.Fit(nil, arSeries(80)))
	s := m.Summary()
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Order.P)
	assert.Equal(t, 0, s.Order.D)
	assert.Equal(t, 1, s.Order.Q)
}
