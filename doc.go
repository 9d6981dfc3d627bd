// Package stockprediction provides stock price forecasting from engineered
// technical-indicator features.
//
// The library turns a chronologically ordered feature table into supervised
// learning windows, cross-validates several regression families over
// expanding-window time series splits, and selects the best hyperparameter
// configuration per family.
//
// # Quick Start
//
// Build windows from a scaled feature table and select a model:
//
//	w, _ := dataset.BuildWindows(rows, 1, 0, 0)
//	searcher := search.New(logger)
//	best, _ := searcher.SelectBest("ridge", w)
//	yhat, _ := best.Model.Predict(xTest)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - dataset: feature tables, supervised windowing, min-max scaling, and
//     time-ordered train/test splits
//   - arima: ARIMA(p,d,q) models fit by conditional sum of squares
//   - stats: autocorrelation and residual diagnostics
//   - model: the uniform fit/predict contract and the regression families
//     (linear, robust, nearest-neighbor, feed-forward, recurrent,
//     autoregressive)
//   - search: hyperparameter grid search with leakage-free time series
//     cross-validation
//
// # References
//
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
package stockprediction
