package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMLPLearnsLinearTrend(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	x := make([][]float64, 200)
	y := make([]float64, 200)
	for i := range x {
		v := rng.Float64()
		x[i] = []float64{v}
		y[i] = 2*v + 0.5
	}

	cfg := DefaultMLPConfig()
	cfg.Dropout = 0
	cfg.Epochs = 200
	cfg.BatchSize = 16
	m, err := NewMLP(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Fit(x, y))

	pred, err := m.Predict(x)
	require.NoError(t, err)
	assert.Less(t, MSE(y, pred), 0.05)
}

func TestMLPInvalidConfig(t *testing.T) {
	cfg := DefaultMLPConfig()
	cfg.Optimizer = "adagrad"
	_, err := NewMLP(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultMLPConfig()
	cfg.Loss = "hinge"
	_, err = NewMLP(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultMLPConfig()
	cfg.Dropout = 1.0
	_, err = NewMLP(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMLPNotFitted(t *testing.T) {
	m, err := NewMLP(DefaultMLPConfig())
	require.NoError(t, err)
	_, perr := m.Predict([][]float64{{1, 2}})
	assert.ErrorIs(t, perr, ErrNotFitted)
}

func TestMLPDeterministicWithSeed(t *testing.T) {
	x := [][]float64{{0}, {0.5}, {1}, {1.5}}
	y := []float64{0, 1, 2, 3}

	run := func() []float64 {
		cfg := DefaultMLPConfig()
		cfg.Epochs = 5
		m, err := NewMLP(cfg)
		require.NoError(t, err)
		require.NoError(t, m.Fit(x, y))
		pred, err := m.Predict(x)
		require.NoError(t, err)
		return pred
	}
	assert.Equal(t, run(), run())
}

func TestLSTMRejectsTooFewLayers(t *testing.T) {
	for _, layers := range []int{0, 1} {
		cfg := DefaultLSTMConfig()
		cfg.Layers = layers
		_, err := NewLSTM(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "layers=%d", layers)
	}

	cfg := DefaultLSTMConfig()
	cfg.Layers = 2
	_, err := NewLSTM(cfg)
	assert.NoError(t, err)
}

func TestLSTMNotFitted(t *testing.T) {
	m, err := NewLSTM(DefaultLSTMConfig())
	require.NoError(t, err)
	_, perr := m.Predict([][]float64{{1}})
	assert.ErrorIs(t, perr, ErrNotFitted)
}

func TestLSTMFitsFlatRows(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	x := make([][]float64, 120)
	y := make([]float64, 120)
	for i := range x {
		v := rng.Float64()
		x[i] = []float64{v}
		y[i] = v
	}

	cfg := DefaultLSTMConfig()
	cfg.Layers = 2
	cfg.HiddenSize = 8
	cfg.Dropout = 0
	cfg.Epochs = 300
	cfg.BatchSize = 16
	m, err := NewLSTM(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Fit(x, y))

	pred, err := m.Predict(x)
	require.NoError(t, err)
	assert.Less(t, MSE(y, pred), 0.1)
}

func TestLSTMFitsSequences(t *testing.T) {
	// Target is the last value of each sequence, so the network only has
	// to learn to pass the final timestep through.
	rng := rand.New(rand.NewSource(17))
	x := make([][][]float64, 100)
	y := make([]float64, 100)
	for i := range x {
		seq := make([][]float64, 4)
		for t := range seq {
			seq[t] = []float64{rng.Float64()}
		}
		x[i] = seq
		y[i] = seq[3][0]
	}

	cfg := DefaultLSTMConfig()
	cfg.Layers = 2
	cfg.HiddenSize = 8
	cfg.Dropout = 0
	cfg.Epochs = 300
	cfg.BatchSize = 16
	m, err := NewLSTM(cfg)
	require.NoError(t, err)
	require.NoError(t, m.FitSequences(x, y))

	pred, err := m.PredictSequences(x)
	require.NoError(t, err)
	assert.Less(t, MSE(y, pred), 0.1)
}

func TestStepperResolution(t *testing.T) {
	for _, name := range []string{"sgd", "rmsprop", "adam", "nadam"} {
		_, err := newStepper(name, 1e-3)
		assert.NoError(t, err, name)
	}
	_, err := newStepper("momentum", 1e-3)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLossResolution(t *testing.T) {
	for _, name := range []string{"mse", "mae"} {
		_, err := resolveLoss(name)
		assert.NoError(t, err, name)
	}
	_, err := resolveLoss("huber")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
