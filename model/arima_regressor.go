package model

import (
	"fmt"

	"github.com/renatolfc/stock-prediction/arima"
)

// ArimaRegressor adapts an ARIMA model to the Regressor contract. It owns
// a growing copy of the series it was fit on: each observed value is
// appended to that history and the model is refit on the whole of it, so
// one-step forecasts always condition on everything seen so far.
type ArimaRegressor struct {
	P, D, Q int

	history []float64
	model   *arima.Model
}

// NewArimaRegressor returns an unfitted controller for the given order.
func NewArimaRegressor(p, d, q int) *ArimaRegressor {
	return &ArimaRegressor{P: p, D: d, Q: q}
}

// Fit replaces the owned history with a copy of y and fits the model on
// it. The feature matrix is ignored: ARIMA models the series itself.
func (a *ArimaRegressor) Fit(_ [][]float64, y []float64) error {
	a.history = append(a.history[:0:0], y...)
	return a.refit()
}

func (a *ArimaRegressor) refit() error {
	m := arima.New(a.P, a.D, a.Q)
	if err := m.Fit(a.history); err != nil {
		return fmt.Errorf("model: arima(%d,%d,%d) fit: %w", a.P, a.D, a.Q, err)
	}
	a.model = m
	return nil
}

// Predict forecasts len(x) steps ahead from the current history. The
// feature rows only carry the horizon; their contents are ignored and the
// history is left untouched.
func (a *ArimaRegressor) Predict(x [][]float64) ([]float64, error) {
	if a.model == nil {
		return nil, ErrNotFitted
	}
	return a.model.Predict(len(x))
}

// Update forecasts one step ahead, then absorbs the observed value:
// it is appended to the history and the model is refit before the next
// call. The returned forecast predates the observation.
func (a *ArimaRegressor) Update(observed float64) (float64, error) {
	if a.model == nil {
		return 0, ErrNotFitted
	}
	forecast, err := a.model.Predict(1)
	if err != nil {
		return 0, err
	}
	a.history = append(a.history, observed)
	if err := a.refit(); err != nil {
		return 0, err
	}
	return forecast[0], nil
}

// UpdateBatch runs Update over the observations in order and returns the
// one-step forecasts made before each observation was absorbed.
func (a *ArimaRegressor) UpdateBatch(observed []float64) ([]float64, error) {
	out := make([]float64, len(observed))
	for i, v := range observed {
		f, err := a.Update(v)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Summary reports the fitted model's diagnostics, or nil before any fit.
func (a *ArimaRegressor) Summary() *arima.Summary {
	if a.model == nil {
		return nil
	}
	return a.model.Summary()
}

// History returns a copy of the owned series.
func (a *ArimaRegressor) History() []float64 {
	return append([]float64(nil), a.history...)
}
