package model

import (
	"fmt"
	"math"
	"sort"
)

// Huber is a robust linear regressor. Samples whose absolute residual
// exceeds Epsilon scaled by a robust estimate of the residual spread are
// downweighted, so a handful of outliers cannot dominate the fit.
type Huber struct {
	Epsilon      float64 // threshold in units of the residual scale
	MaxIter      int
	Tol          float64
	FitIntercept bool

	coef      []float64
	intercept float64
	fitted    bool
}

// NewHuber returns a Huber regressor with the conventional 1.35 threshold.
func NewHuber() *Huber {
	return &Huber{Epsilon: 1.35, MaxIter: 100, Tol: 1e-5, FitIntercept: true}
}

// Fit estimates the weights by iteratively reweighted least squares.
func (m *Huber) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	if m.Epsilon < 1 {
		return fmt.Errorf("%w: huber epsilon %f must be at least 1", ErrInvalidConfig, m.Epsilon)
	}
	maxIter := m.MaxIter
	if maxIter < 1 {
		maxIter = 1
	}

	n := len(x)
	beta, err := solveLS(designMatrix(x, m.FitIntercept), y)
	if err != nil {
		return err
	}

	residuals := make([]float64, n)
	weights := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		predict := func(row []float64) float64 {
			offset := 0
			v := 0.0
			if m.FitIntercept {
				v = beta[0]
				offset = 1
			}
			for j, f := range row {
				v += beta[j+offset] * f
			}
			return v
		}
		for i, row := range x {
			residuals[i] = y[i] - predict(row)
		}

		scale := madScale(residuals)
		if scale < 1e-9 {
			break // already an essentially exact fit
		}

		threshold := m.Epsilon * scale
		for i, r := range residuals {
			if a := math.Abs(r); a > threshold {
				weights[i] = threshold / a
			} else {
				weights[i] = 1
			}
		}

		next, err := m.solveWeighted(x, y, weights)
		if err != nil {
			return err
		}

		delta := 0.0
		for j := range beta {
			delta = math.Max(delta, math.Abs(next[j]-beta[j]))
		}
		beta = next
		if delta < m.Tol {
			break
		}
	}

	if m.FitIntercept {
		m.intercept = beta[0]
		m.coef = beta[1:]
	} else {
		m.intercept = 0
		m.coef = beta
	}
	m.fitted = true
	return nil
}

// solveWeighted solves least squares with per-sample weights by scaling
// each row and target by the square root of its weight.
func (m *Huber) solveWeighted(x [][]float64, y, weights []float64) ([]float64, error) {
	scaledX := make([][]float64, len(x))
	scaledY := make([]float64, len(y))
	for i, row := range x {
		s := math.Sqrt(weights[i])
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = s * v
		}
		scaledX[i] = scaled
		scaledY[i] = s * y[i]
	}
	a := designMatrix(scaledX, m.FitIntercept)
	if m.FitIntercept {
		// The intercept column must be weighted too
		for i := range x {
			a.Set(i, 0, math.Sqrt(weights[i]))
		}
	}
	return solveLS(a, scaledY)
}

// Predict returns the linear prediction for each row of x.
func (m *Huber) Predict(x [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	return linearPredict(x, m.coef, m.intercept), nil
}

// Coefficients returns the fitted weights and intercept.
func (m *Huber) Coefficients() ([]float64, float64) {
	return m.coef, m.intercept
}

// madScale estimates the residual spread as the scaled median absolute
// deviation, which is robust to outliers.
func madScale(residuals []float64) float64 {
	abs := make([]float64, len(residuals))
	for i, r := range residuals {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	var median float64
	n := len(abs)
	if n%2 == 0 {
		median = (abs[n/2-1] + abs[n/2]) / 2
	} else {
		median = abs[n/2]
	}
	return median * 1.4826
}
