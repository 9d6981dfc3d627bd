// Package stats provides autocorrelation analysis and residual diagnostics
// for time series models.
//
// # Autocorrelation
//
// Compute the autocorrelation function of a series:
//
//	acf := stats.ACF(values, 20)
//
// # Residual Diagnostics
//
// Test model residuals for leftover autocorrelation:
//
//	// Ljung-Box test, fitdf = p + q for an ARIMA(p,d,q) model
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // Residuals are white noise (good)
//	}
package stats
