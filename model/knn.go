package model

import (
	"fmt"
	"math"
	"sort"
)

// Weighting schemes for KNN predictions.
const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// KNN is a k-nearest-neighbor regressor under the Minkowski distance of
// order P (1 = Manhattan, 2 = Euclidean).
type KNN struct {
	K       int
	Weights string
	P       int

	x      [][]float64
	y      []float64
	fitted bool
}

// NewKNN returns a KNN regressor with uniform weights and Euclidean
// distance.
func NewKNN(k int) *KNN {
	return &KNN{K: k, Weights: WeightsUniform, P: 2}
}

// Fit stores the training samples.
func (m *KNN) Fit(x [][]float64, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	if m.K < 1 {
		return fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidConfig, m.K)
	}
	if m.Weights != WeightsUniform && m.Weights != WeightsDistance {
		return fmt.Errorf("%w: unknown weighting %q", ErrInvalidConfig, m.Weights)
	}
	if m.P < 1 {
		return fmt.Errorf("%w: minkowski order must be at least 1, got %d", ErrInvalidConfig, m.P)
	}

	m.x = x
	m.y = y
	m.fitted = true
	return nil
}

// Predict averages the targets of each query's k nearest training samples.
func (m *KNN) Predict(x [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	k := m.K
	if k > len(m.x) {
		k = len(m.x)
	}

	out := make([]float64, len(x))
	type neighbor struct {
		dist   float64
		target float64
	}
	neighbors := make([]neighbor, len(m.x))

	for qi, query := range x {
		for i, row := range m.x {
			neighbors[i] = neighbor{dist: m.distance(query, row), target: m.y[i]}
		}
		sort.Slice(neighbors, func(a, b int) bool {
			return neighbors[a].dist < neighbors[b].dist
		})

		if m.Weights == WeightsUniform {
			sum := 0.0
			for _, nb := range neighbors[:k] {
				sum += nb.target
			}
			out[qi] = sum / float64(k)
			continue
		}

		// Distance weighting: an exact match dominates the prediction
		exact := false
		for _, nb := range neighbors[:k] {
			if nb.dist == 0 {
				out[qi] = nb.target
				exact = true
				break
			}
		}
		if exact {
			continue
		}
		num, den := 0.0, 0.0
		for _, nb := range neighbors[:k] {
			w := 1 / nb.dist
			num += w * nb.target
			den += w
		}
		out[qi] = num / den
	}
	return out, nil
}

func (m *KNN) distance(a, b []float64) float64 {
	sum := 0.0
	p := float64(m.P)
	for j := range a {
		sum += math.Pow(math.Abs(a[j]-b[j]), p)
	}
	return math.Pow(sum, 1/p)
}
