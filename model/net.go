package model

import (
	"fmt"
	"math"
	"math/rand"
)

// stepper applies gradient updates to a single parameter slice.
type stepper interface {
	step(w, g []float64)
}

type sgd struct {
	lr float64
}

func (o *sgd) step(w, g []float64) {
	for i := range w {
		w[i] -= o.lr * g[i]
	}
}

type rmsprop struct {
	lr, rho, eps float64
	v            []float64
}

func (o *rmsprop) step(w, g []float64) {
	if o.v == nil {
		o.v = make([]float64, len(w))
	}
	for i := range w {
		o.v[i] = o.rho*o.v[i] + (1-o.rho)*g[i]*g[i]
		w[i] -= o.lr * g[i] / (math.Sqrt(o.v[i]) + o.eps)
	}
}

type adam struct {
	lr, beta1, beta2, eps float64
	nesterov              bool
	m, v                  []float64
	t                     int
}

func (o *adam) step(w, g []float64) {
	if o.m == nil {
		o.m = make([]float64, len(w))
		o.v = make([]float64, len(w))
	}
	o.t++
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))
	for i := range w {
		o.m[i] = o.beta1*o.m[i] + (1-o.beta1)*g[i]
		o.v[i] = o.beta2*o.v[i] + (1-o.beta2)*g[i]*g[i]
		mHat := o.m[i] / c1
		if o.nesterov {
			mHat = o.beta1*mHat + (1-o.beta1)*g[i]/c1
		}
		w[i] -= o.lr * mHat / (math.Sqrt(o.v[i]/c2) + o.eps)
	}
}

// newStepper resolves an optimizer name. Unknown names are a configuration
// error, never silently replaced with a default.
func newStepper(name string, lr float64) (stepper, error) {
	switch name {
	case "sgd":
		return &sgd{lr: lr}, nil
	case "rmsprop":
		return &rmsprop{lr: lr, rho: 0.9, eps: 1e-8}, nil
	case "adam":
		return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}, nil
	case "nadam":
		return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8, nesterov: true}, nil
	}
	return nil, fmt.Errorf("%w: unknown optimizer %q", ErrInvalidConfig, name)
}

// lossFunc computes the loss of a prediction and fills dy with its
// gradient with respect to the prediction.
type lossFunc func(yhat, y, dy []float64) float64

func mseLoss(yhat, y, dy []float64) float64 {
	sum := 0.0
	for i := range y {
		diff := yhat[i] - y[i]
		dy[i] = 2 * diff / float64(len(y))
		sum += diff * diff
	}
	return sum / float64(len(y))
}

func maeLoss(yhat, y, dy []float64) float64 {
	sum := 0.0
	for i := range y {
		diff := yhat[i] - y[i]
		sum += math.Abs(diff)
		switch {
		case diff > 0:
			dy[i] = 1 / float64(len(y))
		case diff < 0:
			dy[i] = -1 / float64(len(y))
		default:
			dy[i] = 0
		}
	}
	return sum / float64(len(y))
}

func resolveLoss(name string) (lossFunc, error) {
	switch name {
	case "mse":
		return mseLoss, nil
	case "mae":
		return maeLoss, nil
	}
	return nil, fmt.Errorf("%w: unknown loss %q", ErrInvalidConfig, name)
}

// dense is a fully connected layer with out x in row-major weights.
type dense struct {
	in, out int
	w, b    []float64
	dw, db  []float64

	wStep, bStep stepper

	x []float64 // input cached by the last forward
}

func newDense(in, out int, rng *rand.Rand, opt func() stepper) *dense {
	d := &dense{
		in: in, out: out,
		w:  make([]float64, out*in),
		b:  make([]float64, out),
		dw: make([]float64, out*in),
		db: make([]float64, out),

		wStep: opt(),
		bStep: opt(),
	}
	limit := 1 / math.Sqrt(float64(in))
	for i := range d.w {
		d.w[i] = (2*rng.Float64() - 1) * limit
	}
	return d
}

func (d *dense) forward(x []float64) []float64 {
	d.x = x
	out := make([]float64, d.out)
	for r := 0; r < d.out; r++ {
		v := d.b[r]
		row := d.w[r*d.in : (r+1)*d.in]
		for j, xv := range x {
			v += row[j] * xv
		}
		out[r] = v
	}
	return out
}

// backward accumulates parameter gradients and returns the gradient with
// respect to the layer input.
func (d *dense) backward(dy []float64) []float64 {
	dx := make([]float64, d.in)
	for r := 0; r < d.out; r++ {
		g := dy[r]
		d.db[r] += g
		row := d.w[r*d.in : (r+1)*d.in]
		grow := d.dw[r*d.in : (r+1)*d.in]
		for j := 0; j < d.in; j++ {
			grow[j] += g * d.x[j]
			dx[j] += g * row[j]
		}
	}
	return dx
}

func (d *dense) apply(batch float64) {
	scaleInPlace(d.dw, 1/batch)
	scaleInPlace(d.db, 1/batch)
	d.wStep.step(d.w, d.dw)
	d.bStep.step(d.b, d.db)
	zero(d.dw)
	zero(d.db)
}

func scaleInPlace(v []float64, s float64) {
	for i := range v {
		v[i] *= s
	}
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func reluForward(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

func reluBackward(dy, out []float64) []float64 {
	dx := make([]float64, len(dy))
	for i := range dy {
		if out[i] > 0 {
			dx[i] = dy[i]
		}
	}
	return dx
}

// dropoutMask returns an inverted-dropout mask: surviving units are scaled
// up so expected activations match inference time.
func dropoutMask(rng *rand.Rand, n int, rate float64) []float64 {
	mask := make([]float64, n)
	if rate <= 0 {
		for i := range mask {
			mask[i] = 1
		}
		return mask
	}
	keep := 1 / (1 - rate)
	for i := range mask {
		if rng.Float64() >= rate {
			mask[i] = keep
		}
	}
	return mask
}

func applyMask(x, mask []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * mask[i]
	}
	return out
}
