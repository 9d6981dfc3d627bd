package search

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatolfc/stock-prediction/dataset"
)

func arWindows(t *testing.T, n int) *dataset.Windows {
	t.Helper()
	values := make([][]float64, n)
	prev := 1.0
	for i := range values {
		prev = 0.8*prev + 0.05*math.Sin(float64(i)*1.7)
		values[i] = []float64{prev}
	}
	w, err := dataset.BuildWindows(values, 1, 0, 0)
	require.NoError(t, err)
	return w
}

func TestSelectARIMA(t *testing.T) {
	s := New(zerolog.Nop())
	w := arWindows(t, 120)

	res, err := s.SelectBest("arima", w)
	require.NoError(t, err)
	assert.Contains(t, res.Params, "p")
	assert.Contains(t, res.Params, "d")
	assert.Contains(t, res.Params, "q")
	assert.False(t, math.IsNaN(res.Score))

	// Refit is on by default, so the model can forecast directly.
	pred, err := res.Model.Predict(make([][]float64, 4))
	require.NoError(t, err)
	assert.Len(t, pred, 4)
}

func TestSelectARIMAWithoutRefit(t *testing.T) {
	s := New(zerolog.Nop())
	s.Refit = false

	res, err := s.SelectBest("arima", arWindows(t, 120))
	require.NoError(t, err)
	_, perr := res.Model.Predict(make([][]float64, 1))
	assert.Error(t, perr)
}

func TestSelectARIMATooShort(t *testing.T) {
	s := New(zerolog.Nop())
	_, err := s.SelectBest("arima", arWindows(t, 6))
	assert.Error(t, err)
}
