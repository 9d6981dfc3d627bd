// Package model implements the regression families behind a single
// fit/predict contract.
//
// Every family satisfies the Regressor interface regardless of its
// internals: ordinary least squares, ridge and Huber regression, k-nearest
// neighbors, a feed-forward network, a stacked LSTM, and an ARIMA wrapper
// that refits on every new observation.
//
// # The Contract
//
//	type Regressor interface {
//	    Fit(x [][]float64, y []float64) error
//	    Predict(x [][]float64) ([]float64, error)
//	}
//
// Flat 2-D windows are the common input form. The LSTM adapts flat input by
// inserting a unit time axis, and additionally exposes FitSequences and
// PredictSequences for true multi-timestep contexts.
//
// # The Autoregressive Wrapper
//
// ArimaRegressor owns a growing history of observed target values. Predict
// is read-only; Update forecasts one step, appends the observed value and
// refits the whole model, which is the only way to advance an ARIMA
// through time:
//
//	reg := model.NewArimaRegressor(5, 1, 1)
//	reg.Fit(nil, history)
//	yhat, _ := reg.Update(observed)
//
// # Errors
//
// Predicting before fitting fails with ErrNotFitted. Structurally invalid
// topologies (for example an LSTM with fewer than two layers) fail at
// construction with ErrInvalidConfig and are never silently corrected.
package model
