package search

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/renatolfc/stock-prediction/dataset"
	"github.com/renatolfc/stock-prediction/model"
)

// Searcher runs hyperparameter grid searches over the model families.
type Searcher struct {
	// Folds is the number of expanding-window cross-validation folds.
	Folds int
	// Refit controls whether the winning model is refit on all samples
	// before being returned.
	Refit bool
	// Workers bounds how many candidates are evaluated concurrently.
	// Neural network candidates are always evaluated one at a time.
	Workers int
	// Epochs overrides the training epochs of neural network candidates
	// when positive. Zero keeps the family default.
	Epochs int

	log zerolog.Logger
}

// New returns a Searcher with three folds, refitting enabled and one
// worker per CPU.
func New(log zerolog.Logger) *Searcher {
	return &Searcher{
		Folds:   3,
		Refit:   true,
		Workers: runtime.NumCPU(),
		log:     log,
	}
}

// Result is the outcome of a grid search: the winning hyperparameters,
// the cross-validation score that won, and the model itself.
type Result struct {
	Score  float64
	Params map[string]any
	Model  model.Regressor
}

// candidate is one grid point: its parameters for reporting and a
// constructor yielding a fresh untrained model.
type candidate struct {
	params map[string]any
	build  func() (model.Regressor, error)
}

// sequenceRegressor is implemented by models that can consume full
// sequences instead of flat feature rows.
type sequenceRegressor interface {
	FitSequences(x [][][]float64, y []float64) error
	PredictSequences(x [][][]float64) ([]float64, error)
}

// SelectBest grid-searches the named model family over the windows and
// returns the best candidate by mean cross-validation MSE. Family names
// are matched case-insensitively.
func (s *Searcher) SelectBest(family string, w *dataset.Windows) (*Result, error) {
	switch strings.ToLower(family) {
	case "ols", "linear":
		return s.evaluate(olsGrid(), w, false)
	case "ridge":
		return s.evaluate(ridgeGrid(), w, false)
	case "huber":
		return s.evaluate(huberGrid(), w, false)
	case "knn":
		return s.evaluate(knnGrid(), w, false)
	case "lstm":
		return s.evaluate(s.lstmGrid(), w, true)
	case "arima":
		return s.selectARIMA(w)
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedModel, family)
}

func olsGrid() []candidate {
	var out []candidate
	for _, standardize := range []bool{false, true} {
		for _, intercept := range []bool{true, false} {
			standardize, intercept := standardize, intercept
			out = append(out, candidate{
				params: map[string]any{"standardize": standardize, "fit_intercept": intercept},
				build: func() (model.Regressor, error) {
					m := model.NewOLS()
					m.Standardize = standardize
					m.FitIntercept = intercept
					return m, nil
				},
			})
		}
	}
	return out
}

func ridgeGrid() []candidate {
	var out []candidate
	for _, alpha := range []float64{1.0, 10.0, 0.1, 0.01} {
		for _, standardize := range []bool{false, true} {
			for _, intercept := range []bool{true, false} {
				alpha, standardize, intercept := alpha, standardize, intercept
				out = append(out, candidate{
					params: map[string]any{"alpha": alpha, "standardize": standardize, "fit_intercept": intercept},
					build: func() (model.Regressor, error) {
						m := model.NewRidge(alpha)
						m.Standardize = standardize
						m.FitIntercept = intercept
						return m, nil
					},
				})
			}
		}
	}
	return out
}

func huberGrid() []candidate {
	var out []candidate
	for _, epsilon := range []float64{1.1, 1.35, 1.5} {
		for _, maxIter := range []int{10, 100, 1000} {
			for _, intercept := range []bool{true, false} {
				epsilon, maxIter, intercept := epsilon, maxIter, intercept
				out = append(out, candidate{
					params: map[string]any{"epsilon": epsilon, "max_iter": maxIter, "fit_intercept": intercept},
					build: func() (model.Regressor, error) {
						m := model.NewHuber()
						m.Epsilon = epsilon
						m.MaxIter = maxIter
						m.FitIntercept = intercept
						return m, nil
					},
				})
			}
		}
	}
	return out
}

func knnGrid() []candidate {
	var out []candidate
	for _, k := range []int{1, 3, 5, 10} {
		for _, weights := range []string{model.WeightsUniform, model.WeightsDistance} {
			for _, p := range []int{1, 2} {
				k, weights, p := k, weights, p
				out = append(out, candidate{
					params: map[string]any{"n_neighbors": k, "weights": weights, "p": p},
					build: func() (model.Regressor, error) {
						m := model.NewKNN(k)
						m.Weights = weights
						m.P = p
						return m, nil
					},
				})
			}
		}
	}
	return out
}

func (s *Searcher) lstmGrid() []candidate {
	var out []candidate
	for _, dropout := range []float64{0.2, 0.5, 0.8} {
		for _, hidden := range []int{32, 64} {
			for _, layers := range []int{2, 3} {
				for _, optimizer := range []string{"adam", "nadam", "rmsprop"} {
					dropout, hidden, layers, optimizer := dropout, hidden, layers, optimizer
					out = append(out, candidate{
						params: map[string]any{
							"dropout":     dropout,
							"hidden_size": hidden,
							"layers":      layers,
							"optimizer":   optimizer,
						},
						build: func() (model.Regressor, error) {
							cfg := model.DefaultLSTMConfig()
							cfg.Dropout = dropout
							cfg.HiddenSize = hidden
							cfg.Layers = layers
							cfg.Optimizer = optimizer
							if s.Epochs > 0 {
								cfg.Epochs = s.Epochs
							}
							return model.NewLSTM(cfg)
						},
					})
				}
			}
		}
	}
	return out
}

// evaluate scores every candidate and returns the winner. Candidates run
// concurrently up to the worker limit; sequential families run one at a
// time. A candidate whose folds all fail is dropped from contention.
func (s *Searcher) evaluate(cands []candidate, w *dataset.Windows, sequential bool) (*Result, error) {
	if w.Len() == 0 {
		return nil, fmt.Errorf("search: no samples to evaluate")
	}
	if len(w.Y[0]) != 1 {
		return nil, fmt.Errorf("search: model selection needs scalar targets, got %d", len(w.Y[0]))
	}
	folds, err := dataset.TimeSeriesSplits(w.Len(), s.Folds)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	scores := make([]float64, len(cands))
	scored := make([]bool, len(cands))

	var g errgroup.Group
	limit := s.Workers
	if sequential || limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for ci := range cands {
		ci := ci
		g.Go(func() error {
			score, ok := s.scoreCandidate(cands[ci], folds, w)
			scores[ci] = score
			scored[ci] = ok
			return nil
		})
	}
	// Workers only record scores, they never return errors.
	_ = g.Wait()

	best := -1
	for ci := range cands {
		if !scored[ci] {
			continue
		}
		if best < 0 || scores[ci] < scores[best] {
			best = ci
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("search: no candidate survived cross-validation")
	}

	result := &Result{Score: scores[best], Params: cands[best].params}
	m, err := cands[best].build()
	if err != nil {
		return nil, err
	}
	result.Model = m
	if s.Refit {
		if err := s.fit(m, w, allIndices(w.Len())); err != nil {
			return nil, fmt.Errorf("search: refit best candidate: %w", err)
		}
	}
	s.log.Info().
		Fields(map[string]any{"params": result.Params}).
		Float64("score", result.Score).
		Msg("grid search complete")
	return result, nil
}

// scoreCandidate returns the candidate's mean MSE over the folds it
// survived. Fold failures are logged and skipped; a candidate with no
// surviving fold reports ok=false.
func (s *Searcher) scoreCandidate(c candidate, folds []dataset.Fold, w *dataset.Windows) (float64, bool) {
	y := w.Targets(0)
	sum := 0.0
	n := 0
	for fi, fold := range folds {
		m, err := c.build()
		if err != nil {
			s.log.Warn().Err(err).Fields(map[string]any{"params": c.params}).Msg("skipping candidate")
			return 0, false
		}
		if err := s.fit(m, w, fold.Train); err != nil {
			s.log.Warn().Err(err).Int("fold", fi).Fields(map[string]any{"params": c.params}).Msg("fold fit failed")
			continue
		}
		pred, err := s.predict(m, w, fold.Test)
		if err != nil {
			s.log.Warn().Err(err).Int("fold", fi).Fields(map[string]any{"params": c.params}).Msg("fold predict failed")
			continue
		}
		sum += model.MSE(pred, gather(y, fold.Test))
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (s *Searcher) fit(m model.Regressor, w *dataset.Windows, idx []int) error {
	y := gather(w.Targets(0), idx)
	if w.Lookback > 0 {
		sm, ok := m.(sequenceRegressor)
		if !ok {
			return fmt.Errorf("search: model cannot consume sequences")
		}
		return sm.FitSequences(gatherSeq(w.Seq, idx), y)
	}
	return m.Fit(gatherRows(w.Flat, idx), y)
}

func (s *Searcher) predict(m model.Regressor, w *dataset.Windows, idx []int) ([]float64, error) {
	if w.Lookback > 0 {
		return m.(sequenceRegressor).PredictSequences(gatherSeq(w.Seq, idx))
	}
	return m.Predict(gatherRows(w.Flat, idx))
}

func gather(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

func gatherRows(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

func gatherSeq(seqs [][][]float64, idx []int) [][][]float64 {
	out := make([][][]float64, len(idx))
	for i, j := range idx {
		out[i] = seqs[j]
	}
	return out
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
