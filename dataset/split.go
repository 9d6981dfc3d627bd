package dataset

import "fmt"

// Fold is one cross-validation fold: the positions of the training and test
// samples. Every training index precedes every test index in time.
type Fold struct {
	Train []int
	Test  []int
}

// TimeSeriesSplits generates expanding-window cross-validation folds over n
// samples. Each fold's test block is a contiguous run of samples following
// an ever-growing training prefix; test blocks are equal-sized, ordered and
// non-overlapping, with any remainder absorbed by the first training
// prefix. There is no shuffling and no look-ahead.
func TimeSeriesSplits(n, folds int) ([]Fold, error) {
	if folds < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", folds)
	}
	testSize := n / (folds + 1)
	if testSize < 1 {
		return nil, fmt.Errorf("cannot split %d samples into %d folds", n, folds)
	}

	out := make([]Fold, folds)
	firstTrain := n - folds*testSize
	for k := 0; k < folds; k++ {
		trainEnd := firstTrain + k*testSize
		fold := Fold{
			Train: make([]int, trainEnd),
			Test:  make([]int, testSize),
		}
		for i := 0; i < trainEnd; i++ {
			fold.Train[i] = i
		}
		for i := 0; i < testSize; i++ {
			fold.Test[i] = trainEnd + i
		}
		out[k] = fold
	}
	return out, nil
}

// Split is a contiguous train/test partition of a window set.
type Split struct {
	XTrain [][]float64
	XTest  [][]float64

	SeqTrain [][][]float64
	SeqTest  [][][]float64

	YTrain [][]float64
	YTest  [][]float64
}

// SplitTrainTest splits windows into a training prefix and test suffix by
// the given training-size ratio. The split is positional: test samples are
// strictly later in time than every training sample.
func SplitTrainTest(w *Windows, trainSize float64) *Split {
	cut := int(trainSize * float64(w.Len()))

	s := &Split{
		YTrain: w.Y[:cut],
		YTest:  w.Y[cut:],
	}
	if w.Lookback > 0 {
		s.SeqTrain = w.Seq[:cut]
		s.SeqTest = w.Seq[cut:]
	} else {
		s.XTrain = w.Flat[:cut]
		s.XTest = w.Flat[cut:]
	}
	return s
}

// Prepare scales a table and windows it into a train/test split. The
// scaler is fit only on the training-eligible row prefix and then applied
// identically to all rows, so no test information leaks into the scaling.
func Prepare(table *Table, trainSize float64, shift, targetColumn, lookback int) (*Split, *MinMaxScaler, error) {
	if trainSize <= 0 || trainSize > 1 {
		return nil, nil, fmt.Errorf("train size must be in (0, 1], got %f", trainSize)
	}

	var scaler MinMaxScaler
	cut := int(trainSize * float64(table.Len()))
	if cut < 1 {
		return nil, nil, fmt.Errorf("too few rows (%d) for train size %f", table.Len(), trainSize)
	}
	if err := scaler.Fit(table.Rows[:cut]); err != nil {
		return nil, nil, err
	}
	scaled, err := scaler.Transform(table.Rows)
	if err != nil {
		return nil, nil, err
	}

	w, err := BuildWindows(scaled, shift, targetColumn, lookback)
	if err != nil {
		return nil, nil, err
	}
	return SplitTrainTest(w, trainSize), &scaler, nil
}
