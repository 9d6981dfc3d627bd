package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearData generates rows drawn from y = b0 + b·x with optional noise.
func linearData(rng *rand.Rand, n int, coef []float64, intercept, noise float64) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(coef))
		v := intercept
		for j := range row {
			row[j] = rng.NormFloat64()
			v += coef[j] * row[j]
		}
		x[i] = row
		y[i] = v + noise*rng.NormFloat64()
	}
	return x, y
}

func TestOLSRecoversCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x, y := linearData(rng, 200, []float64{2.0, -3.5, 0.5}, 1.25, 0)

	m := NewOLS()
	require.NoError(t, m.Fit(x, y))

	coef, intercept := m.Coefficients()
	assert.InDelta(t, 2.0, coef[0], 1e-8)
	assert.InDelta(t, -3.5, coef[1], 1e-8)
	assert.InDelta(t, 0.5, coef[2], 1e-8)
	assert.InDelta(t, 1.25, intercept, 1e-8)

	pred, err := m.Predict(x)
	require.NoError(t, err)
	assert.Less(t, MSE(y, pred), 1e-12)
}

func TestOLSStandardizedMatchesRaw(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	x, y := linearData(rng, 150, []float64{1.0, 4.0}, -2.0, 0.1)

	raw := NewOLS()
	require.NoError(t, raw.Fit(x, y))
	std := NewOLS()
	std.Standardize = true
	require.NoError(t, std.Fit(x, y))

	predRaw, err := raw.Predict(x)
	require.NoError(t, err)
	predStd, err := std.Predict(x)
	require.NoError(t, err)
	for i := range predRaw {
		assert.InDelta(t, predRaw[i], predStd[i], 1e-8)
	}
}

func TestOLSNotFitted(t *testing.T) {
	m := NewOLS()
	_, err := m.Predict([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestOLSRejectsMismatchedInputs(t *testing.T) {
	m := NewOLS()
	assert.Error(t, m.Fit([][]float64{{1}, {2}}, []float64{1}))
	assert.Error(t, m.Fit(nil, nil))
}

func TestRidgeShrinksTowardZero(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x, y := linearData(rng, 100, []float64{5.0}, 0, 0.5)

	small := NewRidge(0.01)
	require.NoError(t, small.Fit(x, y))
	large := NewRidge(1000)
	require.NoError(t, large.Fit(x, y))

	cs, _ := small.Coefficients()
	cl, _ := large.Coefficients()
	assert.Greater(t, math.Abs(cs[0]), math.Abs(cl[0]))
	assert.InDelta(t, 5.0, cs[0], 0.5)
}

func TestRidgeZeroAlphaMatchesOLS(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	x, y := linearData(rng, 120, []float64{1.5, -0.5}, 3.0, 0.2)

	ols := NewOLS()
	require.NoError(t, ols.Fit(x, y))
	ridge := NewRidge(0)
	require.NoError(t, ridge.Fit(x, y))

	co, io := ols.Coefficients()
	cr, ir := ridge.Coefficients()
	assert.InDelta(t, io, ir, 1e-6)
	for j := range co {
		assert.InDelta(t, co[j], cr[j], 1e-6)
	}
}

func TestHuberResistsOutliers(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	x, y := linearData(rng, 200, []float64{2.0}, 1.0, 0.1)
	// Corrupt a handful of targets with gross errors.
	for _, i := range []int{10, 50, 90, 130, 170} {
		y[i] += 100
	}

	huber := NewHuber()
	require.NoError(t, huber.Fit(x, y))
	ols := NewOLS()
	require.NoError(t, ols.Fit(x, y))

	ch, _ := huber.Coefficients()
	co, _ := ols.Coefficients()
	assert.Less(t, math.Abs(ch[0]-2.0), math.Abs(co[0]-2.0))
	assert.InDelta(t, 2.0, ch[0], 0.2)
}

func TestHuberWithoutIntercept(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	x, y := linearData(rng, 200, []float64{3.0}, 0, 0.1)
	for _, i := range []int{20, 80, 140} {
		y[i] -= 50
	}

	m := NewHuber()
	m.FitIntercept = false
	require.NoError(t, m.Fit(x, y))

	coef, intercept := m.Coefficients()
	assert.Equal(t, 0.0, intercept)
	assert.InDelta(t, 3.0, coef[0], 0.2)
}

func TestHuberCleanDataMatchesOLS(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	x, y := linearData(rng, 150, []float64{-1.0, 2.0}, 0.5, 0)

	huber := NewHuber()
	require.NoError(t, huber.Fit(x, y))
	pred, err := huber.Predict(x)
	require.NoError(t, err)
	assert.Less(t, MSE(y, pred), 1e-8)
}
