package model

import (
	"fmt"
	"math/rand"
)

// MLPConfig configures a feed-forward network. Layers counts dense layers
// including the output layer, matching the usual sequential-model
// convention; hidden layers use ReLU activations followed by dropout, the
// output layer is linear.
type MLPConfig struct {
	OutputDim    int
	HiddenSize   int
	Layers       int
	Dropout      float64
	Epochs       int
	BatchSize    int
	LearningRate float64
	Loss         string
	Optimizer    string
	Seed         int64
}

// DefaultMLPConfig returns the configuration used as the search baseline.
func DefaultMLPConfig() MLPConfig {
	return MLPConfig{
		OutputDim:    1,
		HiddenSize:   64,
		Layers:       3,
		Dropout:      0.5,
		Epochs:       25,
		BatchSize:    64,
		LearningRate: 1e-3,
		Loss:         "mse",
		Optimizer:    "nadam",
		Seed:         1234,
	}
}

// MLP is a feed-forward neural network regressor.
type MLP struct {
	cfg    MLPConfig
	loss   lossFunc
	rng    *rand.Rand
	layers []*dense
	fitted bool
}

// NewMLP builds a feed-forward network from cfg. Loss and optimizer names
// are resolved eagerly so a bad configuration fails before any training.
func NewMLP(cfg MLPConfig) (*MLP, error) {
	if cfg.OutputDim < 1 {
		return nil, fmt.Errorf("%w: output dimension %d", ErrInvalidConfig, cfg.OutputDim)
	}
	if cfg.HiddenSize < 1 {
		return nil, fmt.Errorf("%w: hidden size %d", ErrInvalidConfig, cfg.HiddenSize)
	}
	if cfg.Dropout < 0 || cfg.Dropout >= 1 {
		return nil, fmt.Errorf("%w: dropout rate %f", ErrInvalidConfig, cfg.Dropout)
	}
	loss, err := resolveLoss(cfg.Loss)
	if err != nil {
		return nil, err
	}
	if _, err := newStepper(cfg.Optimizer, cfg.LearningRate); err != nil {
		return nil, err
	}
	if cfg.Epochs < 1 {
		cfg.Epochs = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &MLP{
		cfg:  cfg,
		loss: loss,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (m *MLP) build(inputDim int) {
	opt := func() stepper {
		s, _ := newStepper(m.cfg.Optimizer, m.cfg.LearningRate)
		return s
	}
	m.layers = nil
	hidden := m.cfg.Layers - 1
	if hidden < 1 {
		hidden = 1
	}
	in := inputDim
	for i := 0; i < hidden; i++ {
		m.layers = append(m.layers, newDense(in, m.cfg.HiddenSize, m.rng, opt))
		in = m.cfg.HiddenSize
	}
	m.layers = append(m.layers, newDense(in, m.cfg.OutputDim, m.rng, opt))
}

// Fit trains the network with minibatch gradient descent, preserving the
// chronological order of the samples.
func (m *MLP) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	if m.cfg.OutputDim != 1 {
		return fmt.Errorf("%w: scalar targets require output dimension 1", ErrInvalidConfig)
	}
	m.build(len(x[0]))

	dy := make([]float64, m.cfg.OutputDim)
	target := make([]float64, 1)
	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		for start := 0; start < len(x); start += m.cfg.BatchSize {
			end := start + m.cfg.BatchSize
			if end > len(x) {
				end = len(x)
			}
			for i := start; i < end; i++ {
				yhat, acts, masks := m.forward(x[i], true)
				target[0] = y[i]
				m.loss(yhat, target, dy)
				m.backward(dy, acts, masks)
			}
			for _, layer := range m.layers {
				layer.apply(float64(end - start))
			}
		}
	}
	m.fitted = true
	return nil
}

// forward runs one sample through the network. When train is set, hidden
// activations and dropout masks are returned for the backward pass.
func (m *MLP) forward(x []float64, train bool) (out []float64, acts, masks [][]float64) {
	h := x
	last := len(m.layers) - 1
	for i, layer := range m.layers {
		h = layer.forward(h)
		if i == last {
			break // identity activation on the output layer
		}
		h = reluForward(h)
		acts = append(acts, h)
		if train {
			mask := dropoutMask(m.rng, len(h), m.cfg.Dropout)
			h = applyMask(h, mask)
			masks = append(masks, mask)
		}
	}
	return h, acts, masks
}

func (m *MLP) backward(dy []float64, acts, masks [][]float64) {
	last := len(m.layers) - 1
	grad := m.layers[last].backward(dy)
	for i := last - 1; i >= 0; i-- {
		grad = applyMask(grad, masks[i])
		grad = reluBackward(grad, acts[i])
		grad = m.layers[i].backward(grad)
	}
}

// Predict runs inference with dropout disabled.
func (m *MLP) Predict(x [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, row := range x {
		yhat, _, _ := m.forward(row, false)
		out[i] = yhat[0]
	}
	return out, nil
}
