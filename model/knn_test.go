package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKNNSingleNeighbor(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []float64{10, 20, 30, 40}

	m := NewKNN(1)
	require.NoError(t, m.Fit(x, y))

	pred, err := m.Predict([][]float64{{0.1}, {2.9}})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 40}, pred)
}

func TestKNNUniformAveragesNeighbors(t *testing.T) {
	x := [][]float64{{0}, {1}, {10}}
	y := []float64{2, 4, 100}

	m := NewKNN(2)
	require.NoError(t, m.Fit(x, y))

	pred, err := m.Predict([][]float64{{0.5}})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, pred[0], 1e-12)
}

func TestKNNDistanceWeighting(t *testing.T) {
	x := [][]float64{{0}, {3}}
	y := []float64{0, 30}

	m := NewKNN(2)
	m.Weights = WeightsDistance
	require.NoError(t, m.Fit(x, y))

	// Query at 1: weights 1/1 and 1/2, so (0 + 15)/1.5 = 10.
	pred, err := m.Predict([][]float64{{1}})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, pred[0], 1e-12)
}

func TestKNNDistanceWeightingExactMatch(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}}
	y := []float64{5, 7, 9}

	m := NewKNN(3)
	m.Weights = WeightsDistance
	require.NoError(t, m.Fit(x, y))

	pred, err := m.Predict([][]float64{{1}})
	require.NoError(t, err)
	assert.Equal(t, 7.0, pred[0])
}

func TestKNNManhattanDistance(t *testing.T) {
	x := [][]float64{{0, 0}, {2, 2}}
	y := []float64{1, 2}

	m := NewKNN(1)
	m.P = 1
	require.NoError(t, m.Fit(x, y))

	// (0, 1.5) is Manhattan distance 1.5 from the origin and 2.5 from
	// (2, 2), but Euclidean would put it closer to neither decisively.
	pred, err := m.Predict([][]float64{{0, 1.5}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred[0])
}

func TestKNNInvalidConfig(t *testing.T) {
	x := [][]float64{{0}, {1}}
	y := []float64{0, 1}

	m := NewKNN(0)
	assert.ErrorIs(t, m.Fit(x, y), ErrInvalidConfig)

	m = NewKNN(1)
	m.Weights = "gaussian"
	assert.ErrorIs(t, m.Fit(x, y), ErrInvalidConfig)

	m = NewKNN(1)
	m.P = 0
	assert.ErrorIs(t, m.Fit(x, y), ErrInvalidConfig)
}

func TestKNNKLargerThanTrainingSet(t *testing.T) {
	x := [][]float64{{0}, {1}}
	y := []float64{2, 4}

	m := NewKNN(10)
	require.NoError(t, m.Fit(x, y))
	pred, err := m.Predict([][]float64{{5}})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, pred[0], 1e-12)
}

func TestKNNNotFitted(t *testing.T) {
	m := NewKNN(3)
	_, err := m.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)
}
