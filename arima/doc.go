// Package arima implements AutoRegressive Integrated Moving Average (ARIMA) models.
//
// An ARIMA(p,d,q) model combines:
//   - AR(p): AutoRegressive component with p lags
//   - I(d): Integration (differencing) of order d
//   - MA(q): Moving Average component with q lags
//
// Models operate on plain float64 slices so that callers owning a growing
// history of observations can refit without intermediate conversions.
//
// # Basic Usage
//
// Create and fit an ARIMA model:
//
//	model := arima.New(1, 1, 0)
//	if err := model.Fit(values); err != nil {
//	    log.Fatal(err)
//	}
//	forecasts, _ := model.Predict(10)
//
// # Diagnostics
//
// Inspect the fit through its summary:
//
//	summary := model.Summary()
//	fmt.Printf("AIC: %.2f, BIC: %.2f\n", summary.AIC, summary.BIC)
//
// Residuals are available for further analysis with stats.LjungBox.
package arima
