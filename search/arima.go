package search

import (
	"fmt"

	"github.com/renatolfc/stock-prediction/dataset"
	"github.com/renatolfc/stock-prediction/model"
)

// ARIMA sweep ranges. The p values step through short and medium memory,
// d through up to second-order differencing, q through none, one and a
// week of moving-average terms.
var (
	arimaP = []int{1, 3, 5, 10}
	arimaD = []int{0, 1, 2}
	arimaQ = []int{0, 1, 5}
)

// selectARIMA sweeps (p, d, q) orders over the target series. Each order
// is scored by its mean forecast MSE across the cross-validation folds; a
// fold where the fit or forecast fails is skipped, an order failing every
// fold is dropped.
func (s *Searcher) selectARIMA(w *dataset.Windows) (*Result, error) {
	if w.Len() == 0 {
		return nil, fmt.Errorf("search: no samples to evaluate")
	}
	if len(w.Y[0]) != 1 {
		return nil, fmt.Errorf("search: arima selection needs scalar targets, got %d", len(w.Y[0]))
	}
	series := w.Targets(0)
	folds, err := dataset.TimeSeriesSplits(len(series), s.Folds)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	best := -1.0
	var bestOrder [3]int
	for _, p := range arimaP {
		for _, d := range arimaD {
			for _, q := range arimaQ {
				score, ok := s.scoreOrder(p, d, q, series, folds)
				if !ok {
					continue
				}
				if best < 0 || score < best {
					best = score
					bestOrder = [3]int{p, d, q}
				}
			}
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("search: no arima order survived cross-validation")
	}

	result := &Result{
		Score:  best,
		Params: map[string]any{"p": bestOrder[0], "d": bestOrder[1], "q": bestOrder[2]},
	}
	m := model.NewArimaRegressor(bestOrder[0], bestOrder[1], bestOrder[2])
	result.Model = m
	if s.Refit {
		if err := m.Fit(nil, series); err != nil {
			return nil, fmt.Errorf("search: refit best order: %w", err)
		}
	}
	s.log.Info().
		Int("p", bestOrder[0]).Int("d", bestOrder[1]).Int("q", bestOrder[2]).
		Float64("score", best).
		Msg("arima sweep complete")
	return result, nil
}

func (s *Searcher) scoreOrder(p, d, q int, series []float64, folds []dataset.Fold) (float64, bool) {
	sum := 0.0
	n := 0
	for fi, fold := range folds {
		m := model.NewArimaRegressor(p, d, q)
		// Training indices form a prefix, so the slice is contiguous.
		if err := m.Fit(nil, series[:len(fold.Train)]); err != nil {
			s.log.Warn().Err(err).Int("fold", fi).Int("p", p).Int("d", d).Int("q", q).Msg("arima fit failed")
			continue
		}
		pred, err := m.Predict(make([][]float64, len(fold.Test)))
		if err != nil {
			s.log.Warn().Err(err).Int("fold", fi).Int("p", p).Int("d", d).Int("q", q).Msg("arima forecast failed")
			continue
		}
		sum += model.MSE(pred, gather(series, fold.Test))
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
