package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// standardizer holds per-feature z-score parameters, fit once and applied
// identically at fit and predict time.
type standardizer struct {
	mean []float64
	std  []float64
}

func fitStandardizer(x [][]float64) *standardizer {
	d := len(x[0])
	s := &standardizer{mean: make([]float64, d), std: make([]float64, d)}
	col := make([]float64, len(x))
	for j := 0; j < d; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.mean[j], s.std[j] = stat.MeanStdDev(col, nil)
		if s.std[j] == 0 || math.IsNaN(s.std[j]) {
			s.std[j] = 1
		}
	}
	return s
}

func (s *standardizer) transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.mean[j]) / s.std[j]
		}
		out[i] = scaled
	}
	return out
}

// designMatrix packs feature rows into a dense matrix, optionally with a
// leading column of ones for the intercept term.
func designMatrix(x [][]float64, intercept bool) *mat.Dense {
	n := len(x)
	d := len(x[0])
	cols := d
	if intercept {
		cols++
	}
	a := mat.NewDense(n, cols, nil)
	for i, row := range x {
		offset := 0
		if intercept {
			a.Set(i, 0, 1)
			offset = 1
		}
		for j, v := range row {
			a.Set(i, j+offset, v)
		}
	}
	return a
}

// solveLS computes the least-squares solution of a*beta = y.
func solveLS(a *mat.Dense, y []float64) ([]float64, error) {
	var beta mat.VecDense
	if err := beta.SolveVec(a, mat.NewVecDense(len(y), y)); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}
	out := make([]float64, beta.Len())
	for i := range out {
		out[i] = beta.AtVec(i)
	}
	return out, nil
}

func checkXY(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return errors.New("empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("got %d feature rows but %d targets", len(x), len(y))
	}
	return nil
}

// OLS is an ordinary least squares linear regressor.
type OLS struct {
	FitIntercept bool
	Standardize  bool

	coef      []float64
	intercept float64
	scaler    *standardizer
	fitted    bool
}

// NewOLS returns an OLS regressor with an intercept term.
func NewOLS() *OLS {
	return &OLS{FitIntercept: true}
}

// Fit solves the least squares problem for x and y.
func (m *OLS) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	if m.Standardize {
		m.scaler = fitStandardizer(x)
		x = m.scaler.transform(x)
	}

	beta, err := solveLS(designMatrix(x, m.FitIntercept), y)
	if err != nil {
		return err
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

// Predict returns the linear prediction for each row of x.
func (m *OLS) Predict(x [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if m.scaler != nil {
		x = m.scaler.transform(x)
	}
	return linearPredict(x, m.coef, m.intercept), nil
}

// Coefficients returns the fitted weights and intercept.
func (m *OLS) Coefficients() ([]float64, float64) {
	return m.coef, m.intercept
}

func linearPredict(x [][]float64, coef []float64, intercept float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		v := intercept
		for j, c := range coef {
			v += c * row[j]
		}
		out[i] = v
	}
	return out
}
