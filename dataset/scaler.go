package dataset

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// MinMaxScaler rescales each feature to the [0, 1] range. The zero value is
// ready to use; Fit or PartialFit must be called before Transform.
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

// Fit computes per-column minima and maxima from rows, discarding any
// previously accumulated state.
func (s *MinMaxScaler) Fit(rows [][]float64) error {
	s.Min, s.Max = nil, nil
	return s.PartialFit(rows)
}

// PartialFit widens the per-column bounds with an additional batch of rows.
// It allows one scaler to be fit incrementally across several tables.
func (s *MinMaxScaler) PartialFit(rows [][]float64) error {
	if len(rows) == 0 {
		return errors.New("cannot fit scaler on empty input")
	}
	columns := len(rows[0])
	if s.Min == nil {
		s.Min = make([]float64, columns)
		s.Max = make([]float64, columns)
		for j := 0; j < columns; j++ {
			col := Column(rows, j)
			s.Min[j] = floats.Min(col)
			s.Max[j] = floats.Max(col)
		}
		return nil
	}
	if len(s.Min) != columns {
		return errors.New("column count does not match previous fit")
	}
	for j := 0; j < columns; j++ {
		col := Column(rows, j)
		if lo := floats.Min(col); lo < s.Min[j] {
			s.Min[j] = lo
		}
		if hi := floats.Max(col); hi > s.Max[j] {
			s.Max[j] = hi
		}
	}
	return nil
}

// Transform rescales rows into the [0, 1] range using the fitted bounds.
// Constant columns map to zero.
func (s *MinMaxScaler) Transform(rows [][]float64) ([][]float64, error) {
	if s.Min == nil {
		return nil, errors.New("scaler is not fitted")
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Min) {
			return nil, errors.New("row width does not match fitted columns")
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			if span := s.Max[j] - s.Min[j]; span != 0 {
				scaled[j] = (v - s.Min[j]) / span
			}
		}
		out[i] = scaled
	}
	return out, nil
}

// InverseTransform maps scaled rows back to the original feature scale.
func (s *MinMaxScaler) InverseTransform(rows [][]float64) ([][]float64, error) {
	if s.Min == nil {
		return nil, errors.New("scaler is not fitted")
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Min) {
			return nil, errors.New("row width does not match fitted columns")
		}
		raw := make([]float64, len(row))
		for j, v := range row {
			raw[j] = v*(s.Max[j]-s.Min[j]) + s.Min[j]
		}
		out[i] = raw
	}
	return out, nil
}
