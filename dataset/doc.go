// Package dataset turns a chronologically ordered feature table into
// supervised learning data.
//
// The package covers four concerns: the feature table and its column
// schema, supervised windowing, feature scaling, and time-ordered
// train/test splitting.
//
// # Schema and Tables
//
// The column schema is a value, selected once depending on whether a
// benchmark series is available for the beta column:
//
//	columns := dataset.Schema(benchmark != nil)
//	table, err := dataset.LoadTable("data/AAPL.csv", columns)
//
// # Windowing
//
// Build (context, target) samples that respect temporal causality:
//
//	// Predict column 0 one step ahead from single-row contexts
//	w, err := dataset.BuildWindows(table.Rows, 1, 0, 0)
//
//	// Sequence contexts of 6 consecutive rows for recurrent models
//	w, err := dataset.BuildWindows(table.Rows, 1, 0, 5)
//
// # Splitting
//
// Contiguous train/test splits and expanding-window cross-validation
// folds, both free of look-ahead:
//
//	split := dataset.SplitTrainTest(w, 0.8)
//	folds, err := dataset.TimeSeriesSplits(w.Len(), 3)
//
// # Scaling
//
// Min-max scaling fit on training-eligible rows only:
//
//	var scaler dataset.MinMaxScaler
//	scaler.Fit(trainRows)
//	scaled := scaler.Transform(rows)
package dataset
