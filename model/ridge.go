package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is a linear regressor with L2-penalized weights. The intercept,
// when fit, is not penalized.
type Ridge struct {
	Alpha        float64
	FitIntercept bool
	Standardize  bool

	coef      []float64
	intercept float64
	scaler    *standardizer
	fitted    bool
}

// NewRidge returns a ridge regressor with the given penalty strength.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha, FitIntercept: true}
}

// Fit solves the regularized normal equations for x and y.
func (m *Ridge) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	if m.Alpha < 0 {
		return fmt.Errorf("%w: negative ridge alpha %f", ErrInvalidConfig, m.Alpha)
	}
	if m.Standardize {
		m.scaler = fitStandardizer(x)
		x = m.scaler.transform(x)
	}

	n := len(x)
	d := len(x[0])

	// Center features and targets so the intercept stays unpenalized
	xMean := make([]float64, d)
	yMean := 0.0
	if m.FitIntercept {
		for _, row := range x {
			for j, v := range row {
				xMean[j] += v
			}
		}
		for j := range xMean {
			xMean[j] /= float64(n)
		}
		for _, v := range y {
			yMean += v
		}
		yMean /= float64(n)
	}

	xm := mat.NewDense(n, d, nil)
	yc := mat.NewVecDense(n, nil)
	for i, row := range x {
		for j, v := range row {
			xm.Set(i, j, v-xMean[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	// (XᵀX + αI) w = Xᵀy
	var gram mat.Dense
	gram.Mul(xm.T(), xm)
	for j := 0; j < d; j++ {
		gram.Set(j, j, gram.At(j, j)+m.Alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(xm.T(), yc)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("ridge solve: %w", err)
	}

	m.coef = make([]float64, d)
	for j := range m.coef {
		m.coef[j] = w.AtVec(j)
	}
	m.intercept = yMean
	for j := range m.coef {
		m.intercept -= m.coef[j] * xMean[j]
	}
	m.fitted = true
	return nil
}

// Predict returns the linear prediction for each row of x.
func (m *Ridge) Predict(x [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if m.scaler != nil {
		x = m.scaler.transform(x)
	}
	return linearPredict(x, m.coef, m.intercept), nil
}

// Coefficients returns the fitted weights and intercept.
func (m *Ridge) Coefficients() ([]float64, float64) {
	return m.coef, m.intercept
}
