package dataset

import "testing"

func TestTimeSeriesSplitsOrdering(t *testing.T) {
	for _, n := range []int{10, 47, 98, 200} {
		for _, folds := range []int{2, 3, 5} {
			got, err := TimeSeriesSplits(n, folds)
			if err != nil {
				t.Fatalf("n=%d folds=%d: %v", n, folds, err)
			}
			if len(got) != folds {
				t.Fatalf("n=%d: expected %d folds, got %d", n, folds, len(got))
			}

			prevTestEnd := -1
			for k, fold := range got {
				if len(fold.Train) == 0 || len(fold.Test) == 0 {
					t.Fatalf("n=%d fold %d: empty block", n, k)
				}
				maxTrain := fold.Train[len(fold.Train)-1]
				minTest := fold.Test[0]
				if maxTrain >= minTest {
					t.Errorf("n=%d fold %d: train index %d not before test index %d",
						n, k, maxTrain, minTest)
				}
				if minTest <= prevTestEnd {
					t.Errorf("n=%d fold %d: test block overlaps previous fold", n, k)
				}
				prevTestEnd = fold.Test[len(fold.Test)-1]
				if prevTestEnd >= n {
					t.Errorf("n=%d fold %d: test index %d out of range", n, k, prevTestEnd)
				}
			}
		}
	}
}

func TestTimeSeriesSplitsExpandingPrefix(t *testing.T) {
	folds, err := TimeSeriesSplits(98, 3)
	if err != nil {
		t.Fatal(err)
	}
	// 98 samples, 3 folds: test blocks of 24, first train prefix absorbs
	// the remainder of 26.
	wantTrain := []int{26, 50, 74}
	for k, fold := range folds {
		if len(fold.Train) != wantTrain[k] {
			t.Errorf("fold %d: expected %d training samples, got %d",
				k, wantTrain[k], len(fold.Train))
		}
		if len(fold.Test) != 24 {
			t.Errorf("fold %d: expected 24 test samples, got %d", k, len(fold.Test))
		}
	}
}

func TestTimeSeriesSplitsTooFewSamples(t *testing.T) {
	if _, err := TimeSeriesSplits(3, 3); err == nil {
		t.Error("Expected error for too few samples")
	}
	if _, err := TimeSeriesSplits(100, 1); err == nil {
		t.Error("Expected error for a single fold")
	}
}

func TestPrepareScalerFitOnTrainOnly(t *testing.T) {
	// Rows trend upward, so the global max lives in the test suffix. A
	// leak-free scaler must be unaware of it.
	rows := make([][]float64, 50)
	for i := range rows {
		rows[i] = []float64{float64(i), float64(100 + i)}
	}
	tbl := &Table{Columns: []string{"a", "b"}, Rows: rows}

	split, scaler, err := Prepare(tbl, 0.8, 1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if scaler.Max[0] != 39 {
		t.Errorf("Scaler saw test rows: max=%v, want 39", scaler.Max[0])
	}

	// Test-suffix values beyond the training range scale above 1
	last := split.XTest[len(split.XTest)-1][0]
	if last <= 1 {
		t.Errorf("Expected test value above training range to exceed 1, got %v", last)
	}
}

func TestPrepareTrainSizeTooSmall(t *testing.T) {
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = []float64{float64(i)}
	}
	tbl := &Table{Columns: []string{"a"}, Rows: rows}

	// Not a single row qualifies for training, so the scaler has nothing
	// leak-free to fit on.
	if _, _, err := Prepare(tbl, 0.05, 1, 0, 0); err == nil {
		t.Error("Expected error when no row qualifies for training")
	}
}

func TestPrepareSequenceForm(t *testing.T) {
	rows := table(60, 4)
	tbl := &Table{Columns: []string{"a", "b", "c", "d"}, Rows: rows}

	split, _, err := Prepare(tbl, 0.8, 1, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if split.XTrain != nil {
		t.Error("Expected sequence form, got flat training data")
	}
	if len(split.SeqTrain) == 0 {
		t.Fatal("Expected sequence training samples")
	}
	if len(split.SeqTrain[0]) != 6 {
		t.Errorf("Expected 6 timesteps, got %d", len(split.SeqTrain[0]))
	}
}
