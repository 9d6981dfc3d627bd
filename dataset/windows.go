package dataset

import "fmt"

// TargetAll selects the full feature row as the prediction target instead
// of a single column.
const TargetAll = -1

// Windows holds supervised (context, target) samples derived from a
// chronological table. When Lookback is zero each context is a single
// feature row held in Flat; otherwise each context is a sequence of
// Lookback+1 consecutive rows held in Seq. Targets always live in Y, one
// row per sample: a single value when a target column was selected, the
// full feature row for TargetAll.
type Windows struct {
	Flat [][]float64   // samples x features, set when Lookback == 0
	Seq  [][][]float64 // samples x timesteps x features, set when Lookback > 0
	Y    [][]float64

	Shift        int
	Lookback     int
	TargetColumn int
}

// BuildWindows builds supervised learning windows from a chronological
// matrix of feature rows.
//
// shift is the forecast horizon in rows; lookback is the number of
// historical rows included per sample in addition to the current one;
// targetColumn selects the target value from the row shift steps past the
// context end, or TargetAll for the whole row.
//
// The context-end positions deliberately stop shift rows short of the last
// position whose target would still be in range, keeping a margin of
// unused rows at the end of the table. Tables too short to produce a
// sample yield an empty result, not an error.
func BuildWindows(values [][]float64, shift, targetColumn, lookback int) (*Windows, error) {
	if shift < 1 {
		return nil, fmt.Errorf("shift must be at least 1, got %d", shift)
	}
	if lookback < 0 {
		return nil, fmt.Errorf("lookback must not be negative, got %d", lookback)
	}
	columns := 0
	if len(values) > 0 {
		columns = len(values[0])
	}
	if targetColumn != TargetAll && (targetColumn < 0 || (columns > 0 && targetColumn >= columns)) {
		return nil, fmt.Errorf("target column %d out of range [0, %d)", targetColumn, columns)
	}

	w := &Windows{
		Shift:        shift,
		Lookback:     lookback,
		TargetColumn: targetColumn,
	}

	// This is *not* an off-by-one error: the last shift context positions
	// are excluded on purpose so no target is ever synthesized past the
	// end of known data.
	lines := len(values) - shift
	for i := lookback; i < lines-shift; i++ {
		target := values[i+shift]
		var y []float64
		if targetColumn == TargetAll {
			y = append([]float64(nil), target...)
		} else {
			y = []float64{target[targetColumn]}
		}
		w.Y = append(w.Y, y)

		if lookback == 0 {
			w.Flat = append(w.Flat, append([]float64(nil), values[i]...))
			continue
		}
		context := make([][]float64, 0, lookback+1)
		for _, row := range values[i-lookback : i+1] {
			context = append(context, append([]float64(nil), row...))
		}
		w.Seq = append(w.Seq, context)
	}

	return w, nil
}

// Len returns the number of samples.
func (w *Windows) Len() int {
	return len(w.Y)
}

// NumFeatures returns the width of each feature row, or zero for an empty
// window set.
func (w *Windows) NumFeatures() int {
	if w.Lookback > 0 {
		if len(w.Seq) == 0 {
			return 0
		}
		return len(w.Seq[0][0])
	}
	if len(w.Flat) == 0 {
		return 0
	}
	return len(w.Flat[0])
}

// Timesteps returns the sequence length of each context.
func (w *Windows) Timesteps() int {
	return w.Lookback + 1
}

// Sequences returns the contexts in sequence form. Flat windows are viewed
// as single-timestep sequences, which is the shape sequence models expect.
func (w *Windows) Sequences() [][][]float64 {
	if w.Lookback > 0 {
		return w.Seq
	}
	seq := make([][][]float64, len(w.Flat))
	for i, row := range w.Flat {
		seq[i] = [][]float64{row}
	}
	return seq
}

// Targets returns column j of the target matrix.
func (w *Windows) Targets(j int) []float64 {
	return Column(w.Y, j)
}
