// Package search selects forecasting models by exhaustive grid search
// under expanding-window cross-validation.
//
// Each model family carries a fixed hyperparameter grid. Every grid point
// is scored by its mean squared error averaged over time-ordered
// cross-validation folds, with a fresh model per fold so no state leaks
// between candidates. The best candidate can optionally be refit on the
// full sample before it is returned.
package search
