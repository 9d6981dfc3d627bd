package model

import "errors"

var (
	// ErrNotFitted is returned when prediction is requested before any fit.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrInvalidConfig is returned for structurally invalid model
	// configurations, such as an LSTM with fewer than two layers.
	ErrInvalidConfig = errors.New("invalid model configuration")

	// ErrUnsupportedModel is returned when an unrecognized model family
	// name is requested.
	ErrUnsupportedModel = errors.New("unsupported model")
)

// Regressor is the uniform contract over all model families.
type Regressor interface {
	// Fit trains the model on flat feature rows x and targets y.
	Fit(x [][]float64, y []float64) error

	// Predict returns one forecast per row of x. It must be called after
	// Fit and must not mutate the model.
	Predict(x [][]float64) ([]float64, error)
}
