package model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared error between predictions and targets.
// Mismatched or empty inputs yield NaN.
func MSE(yhat, y []float64) float64 {
	if len(yhat) != len(y) || len(y) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range y {
		diff := yhat[i] - y[i]
		sum += diff * diff
	}
	return sum / float64(len(y))
}

// RMSE returns the root mean squared error.
func RMSE(yhat, y []float64) float64 {
	return math.Sqrt(MSE(yhat, y))
}

// R2 returns the coefficient of determination of the predictions.
func R2(yhat, y []float64) float64 {
	if len(yhat) != len(y) || len(y) == 0 {
		return math.NaN()
	}
	return stat.RSquaredFrom(yhat, y, nil)
}
