package model

import (
	"fmt"
	"math"
	"math/rand"
)

// LSTMConfig configures a stacked recurrent network. Layers counts the
// recurrent cells plus the linear output head, so Layers must be at least
// 2. InputDim and InputLength describe the expected sequences; both are
// inferred from the data when left zero.
type LSTMConfig struct {
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
	InputDim     int
	InputLength  int
}

// DefaultLSTMConfig returns the configuration used as the search baseline.
func DefaultLSTMConfig() LSTMConfig {
	return LSTMConfig{
		OutputDim:    1,
		HiddenSize:   32,
		Layers:       3,
		Dropout:      0.4,
		Epochs:       25,
		BatchSize:    64,
		LearningRate: 1e-3,
		Loss:         "mse",
		Optimizer:    "nadam",
		Seed:         1234,
	}
}

// LSTM is a stacked recurrent neural network regressor. Each recurrent
// layer feeds its full output sequence to the next; only the last
// timestep of the top layer reaches the linear head.
type LSTM struct {
	cfg    LSTMConfig
	loss   lossFunc
	rng    *rand.Rand
	cells  []*lstmCell
	head   *dense
	fitted bool
}

// NewLSTM builds a recurrent network from cfg. A network with fewer than
// two layers has no recurrent cell under the head and is rejected.
func NewLSTM(cfg LSTMConfig) (*LSTM, error) {
	if cfg.Layers < 2 {
		return nil, fmt.Errorf("%w: recurrent networks need at least 2 layers, got %d", ErrInvalidConfig, cfg.Layers)
	}
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
	return &LSTM{
		cfg:  cfg,
		loss: loss,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (m *LSTM) build(inputDim int) {
	opt := func() stepper {
		s, _ := newStepper(m.cfg.Optimizer, m.cfg.LearningRate)
		return s
	}
	m.cells = nil
	in := inputDim
	for i := 0; i < m.cfg.Layers-1; i++ {
		m.cells = append(m.cells, newLSTMCell(in, m.cfg.HiddenSize, m.rng, opt))
		in = m.cfg.HiddenSize
	}
	m.head = newDense(in, m.cfg.OutputDim, m.rng, opt)
}

// Fit trains on flat feature rows by treating each row as a length-one
// sequence.
func (m *LSTM) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	seqs := make([][][]float64, len(x))
	for i, row := range x {
		seqs[i] = [][]float64{row}
	}
	return m.FitSequences(seqs, y)
}

// Predict runs inference on flat rows as length-one sequences.
func (m *LSTM) Predict(x [][]float64) ([]float64, error) {
	seqs := make([][][]float64, len(x))
	for i, row := range x {
		seqs[i] = [][]float64{row}
	}
	return m.PredictSequences(seqs)
}

// FitSequences trains the network on full sequences with truncated
// backpropagation through the whole window.
func (m *LSTM) FitSequences(x [][][]float64, y []float64) error {
	if len(x) == 0 {
		return fmt.Errorf("model: empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("model: %d samples but %d targets", len(x), len(y))
	}
	if len(x[0]) == 0 || len(x[0][0]) == 0 {
		return fmt.Errorf("model: empty sequence")
	}
	m.build(len(x[0][0]))

	dy := make([]float64, m.cfg.OutputDim)
	target := make([]float64, 1)
	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		for start := 0; start < len(x); start += m.cfg.BatchSize {
			end := start + m.cfg.BatchSize
			if end > len(x) {
				end = len(x)
			}
			for i := start; i < end; i++ {
				m.trainSample(x[i], y[i], dy, target)
			}
			batch := float64(end - start)
			for _, cell := range m.cells {
				cell.apply(batch)
			}
			m.head.apply(batch)
		}
	}
	m.fitted = true
	return nil
}

func (m *LSTM) trainSample(seq [][]float64, y float64, dy, target []float64) {
	steps := len(seq)
	outs := seq
	masks := make([][]float64, len(m.cells))
	for li, cell := range m.cells {
		outs = cell.forward(outs)
		mask := dropoutMask(m.rng, m.cfg.HiddenSize, m.cfg.Dropout)
		masked := make([][]float64, steps)
		for t := range outs {
			masked[t] = applyMask(outs[t], mask)
		}
		outs = masked
		masks[li] = mask
	}
	yhat := m.head.forward(outs[steps-1])
	target[0] = y
	m.loss(yhat, target, dy)

	grads := make([][]float64, steps)
	for t := range grads {
		grads[t] = make([]float64, m.cfg.HiddenSize)
	}
	grads[steps-1] = m.head.backward(dy)
	for li := len(m.cells) - 1; li >= 0; li-- {
		for t := range grads {
			grads[t] = applyMask(grads[t], masks[li])
		}
		grads = m.cells[li].backward(grads)
	}
}

// PredictSequences runs inference with dropout disabled.
func (m *LSTM) PredictSequences(x [][][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, seq := range x {
		outs := seq
		for _, cell := range m.cells {
			outs = cell.forward(outs)
		}
		yhat := m.head.forward(outs[len(outs)-1])
		out[i] = yhat[0]
	}
	return out, nil
}

// lstmCell is a single recurrent layer. The gate parameters are packed in
// i, f, g, o order: wx is (4H x in), wh is (4H x H) and b is 4H.
type lstmCell struct {
	in, hidden int

	wx, wh, b    []float64
	dwx, dwh, db []float64

	wxStep, whStep, bStep stepper

	// caches from the last forward pass
	xs, hs, cs [][]float64
	gates      [][]float64
	tanhc      [][]float64
}

func newLSTMCell(in, hidden int, rng *rand.Rand, opt func() stepper) *lstmCell {
	c := &lstmCell{
		in: in, hidden: hidden,
		wx:  make([]float64, 4*hidden*in),
		wh:  make([]float64, 4*hidden*hidden),
		b:   make([]float64, 4*hidden),
		dwx: make([]float64, 4*hidden*in),
		dwh: make([]float64, 4*hidden*hidden),
		db:  make([]float64, 4*hidden),

		wxStep: opt(),
		whStep: opt(),
		bStep:  opt(),
	}
	limit := 1 / math.Sqrt(float64(in+hidden))
	for i := range c.wx {
		c.wx[i] = (2*rng.Float64() - 1) * limit
	}
	for i := range c.wh {
		c.wh[i] = (2*rng.Float64() - 1) * limit
	}
	// Forget-gate bias starts at one so early training keeps cell state.
	for i := hidden; i < 2*hidden; i++ {
		c.b[i] = 1
	}
	return c
}

// forward consumes a sequence of input vectors and returns the hidden
// state at every timestep.
func (c *lstmCell) forward(xs [][]float64) [][]float64 {
	steps := len(xs)
	H := c.hidden
	c.xs = xs
	c.hs = make([][]float64, steps+1)
	c.cs = make([][]float64, steps+1)
	c.gates = make([][]float64, steps)
	c.tanhc = make([][]float64, steps)
	c.hs[0] = make([]float64, H)
	c.cs[0] = make([]float64, H)

	for t := 0; t < steps; t++ {
		pre := make([]float64, 4*H)
		copy(pre, c.b)
		x := xs[t]
		hPrev := c.hs[t]
		for r := 0; r < 4*H; r++ {
			v := pre[r]
			row := c.wx[r*c.in : (r+1)*c.in]
			for j, xv := range x {
				v += row[j] * xv
			}
			hrow := c.wh[r*H : (r+1)*H]
			for j, hv := range hPrev {
				v += hrow[j] * hv
			}
			pre[r] = v
		}
		g := make([]float64, 4*H)
		h := make([]float64, H)
		cNew := make([]float64, H)
		th := make([]float64, H)
		for j := 0; j < H; j++ {
			ig := sigmoid(pre[j])
			fg := sigmoid(pre[H+j])
			gg := math.Tanh(pre[2*H+j])
			og := sigmoid(pre[3*H+j])
			g[j], g[H+j], g[2*H+j], g[3*H+j] = ig, fg, gg, og
			cNew[j] = fg*c.cs[t][j] + ig*gg
			th[j] = math.Tanh(cNew[j])
			h[j] = og * th[j]
		}
		c.gates[t] = g
		c.tanhc[t] = th
		c.cs[t+1] = cNew
		c.hs[t+1] = h
	}
	out := make([][]float64, steps)
	copy(out, c.hs[1:])
	return out
}

// backward takes per-timestep gradients of the loss with respect to the
// hidden outputs and returns gradients with respect to the inputs,
// accumulating parameter gradients along the way.
func (c *lstmCell) backward(dhs [][]float64) [][]float64 {
	steps := len(c.xs)
	H := c.hidden
	dxs := make([][]float64, steps)
	dhNext := make([]float64, H)
	dcNext := make([]float64, H)

	for t := steps - 1; t >= 0; t-- {
		g := c.gates[t]
		th := c.tanhc[t]
		dh := make([]float64, H)
		for j := 0; j < H; j++ {
			dh[j] = dhs[t][j] + dhNext[j]
		}
		dpre := make([]float64, 4*H)
		dcPrev := make([]float64, H)
		for j := 0; j < H; j++ {
			ig, fg, gg, og := g[j], g[H+j], g[2*H+j], g[3*H+j]
			dc := dh[j]*og*(1-th[j]*th[j]) + dcNext[j]
			dpre[j] = dc * gg * ig * (1 - ig)
			dpre[H+j] = dc * c.cs[t][j] * fg * (1 - fg)
			dpre[2*H+j] = dc * ig * (1 - gg*gg)
			dpre[3*H+j] = dh[j] * th[j] * og * (1 - og)
			dcPrev[j] = dc * fg
		}
		dx := make([]float64, c.in)
		dhPrev := make([]float64, H)
		x := c.xs[t]
		hPrev := c.hs[t]
		for r := 0; r < 4*H; r++ {
			gr := dpre[r]
			if gr == 0 {
				continue
			}
			c.db[r] += gr
			wrow := c.wx[r*c.in : (r+1)*c.in]
			grow := c.dwx[r*c.in : (r+1)*c.in]
			for j := 0; j < c.in; j++ {
				grow[j] += gr * x[j]
				dx[j] += gr * wrow[j]
			}
			hrow := c.wh[r*H : (r+1)*H]
			ghrow := c.dwh[r*H : (r+1)*H]
			for j := 0; j < H; j++ {
				ghrow[j] += gr * hPrev[j]
				dhPrev[j] += gr * hrow[j]
			}
		}
		dxs[t] = dx
		dhNext = dhPrev
		dcNext = dcPrev
	}
	return dxs
}

func (c *lstmCell) apply(batch float64) {
	scaleInPlace(c.dwx, 1/batch)
	scaleInPlace(c.dwh, 1/batch)
	scaleInPlace(c.db, 1/batch)
	c.wxStep.step(c.wx, c.dwx)
	c.whStep.step(c.wh, c.dwh)
	c.bStep.step(c.b, c.db)
	zero(c.dwx)
	zero(c.dwh)
	zero(c.db)
}
