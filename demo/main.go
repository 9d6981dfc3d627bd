// Package main walks the full model-selection pipeline on daily price
// features: windowing, scaling, grid search per model family, and a
// walk-forward ARIMA evaluation over the held-out tail.
package main

import (
	"flag"
	"math"
	"math/rand"
	"os"

	"github.com/rs/zerolog"

	"github.com/renatolfc/stock-prediction/dataset"
	"github.com/renatolfc/stock-prediction/model"
	"github.com/renatolfc/stock-prediction/search"
)

func main() {
	var (
		file      = flag.String("file", "", "CSV file with price features; synthetic data when empty")
		shift     = flag.Int("shift", 1, "forecast horizon in rows")
		lookback  = flag.Int("lookback", 0, "historical rows per sample")
		trainSize = flag.Float64("train-size", 0.8, "fraction of samples used for training")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	table, err := loadOrSynthesize(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("load data")
	}
	log.Info().Int("rows", table.Len()).Int("columns", len(table.Columns)).Msg("loaded feature table")

	split, _, err := dataset.Prepare(table, *trainSize, *shift, 0, *lookback)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare dataset")
	}
	log.Info().
		Int("train", len(split.YTrain)).
		Int("test", len(split.YTest)).
		Msg("windowed and scaled")

	scaled, err := scaledWindows(table, *trainSize, *shift, *lookback)
	if err != nil {
		log.Fatal().Err(err).Msg("window data")
	}

	s := search.New(log)
	families := []string{"ols", "ridge", "huber", "knn"}
	if *lookback > 0 {
		families = []string{"lstm"}
	}
	for _, family := range families {
		res, err := s.SelectBest(family, scaled)
		if err != nil {
			log.Error().Err(err).Str("family", family).Msg("grid search failed")
			continue
		}
		reportHoldout(log, family, res, split)
	}

	walkForwardARIMA(log, table, *trainSize)
}

// loadOrSynthesize reads the CSV when a file was given, otherwise
// generates a plausible random-walk feature table.
func loadOrSynthesize(file string) (*dataset.Table, error) {
	if file != "" {
		return dataset.LoadTable(file, dataset.Schema(false))
	}

	columns := dataset.Schema(false)
	rng := rand.New(rand.NewSource(42))
	rows := make([][]float64, 500)
	price := 100.0
	for i := range rows {
		price *= 1 + 0.002*rng.NormFloat64()
		row := make([]float64, len(columns))
		row[0] = price
		for j := 1; j < len(row); j++ {
			row[j] = price*0.1 + rng.NormFloat64()
		}
		rows[i] = row
	}
	return &dataset.Table{Columns: columns, Rows: rows}, nil
}

func scaledWindows(table *dataset.Table, trainSize float64, shift, lookback int) (*dataset.Windows, error) {
	var scaler dataset.MinMaxScaler
	cut := int(trainSize * float64(table.Len()))
	if err := scaler.Fit(table.Rows[:cut]); err != nil {
		return nil, err
	}
	scaled, err := scaler.Transform(table.Rows)
	if err != nil {
		return nil, err
	}
	return dataset.BuildWindows(scaled, shift, 0, lookback)
}

func reportHoldout(log zerolog.Logger, family string, res *search.Result, split *dataset.Split) {
	var pred []float64
	var err error
	switch {
	case len(split.XTest) > 0:
		pred, err = res.Model.Predict(split.XTest)
	case len(split.SeqTest) > 0:
		sm := res.Model.(interface {
			PredictSequences(x [][][]float64) ([]float64, error)
		})
		pred, err = sm.PredictSequences(split.SeqTest)
	default:
		return
	}
	if err != nil {
		log.Error().Err(err).Str("family", family).Msg("holdout prediction failed")
		return
	}
	truth := dataset.Column(split.YTest, 0)
	log.Info().
		Str("family", family).
		Fields(map[string]any{"params": res.Params}).
		Float64("cv_mse", res.Score).
		Float64("holdout_rmse", model.RMSE(pred, truth)).
		Float64("holdout_r2", model.R2(pred, truth)).
		Msg("family evaluated")
}

// walkForwardARIMA sweeps ARIMA orders on the training prefix of the raw
// price series, then forecasts the tail one observation at a time,
// refitting after each.
func walkForwardARIMA(log zerolog.Logger, table *dataset.Table, trainSize float64) {
	prices := dataset.Column(table.Rows, 0)
	cut := int(trainSize * float64(len(prices)))
	train, test := prices[:cut], prices[cut:]

	values := make([][]float64, len(train))
	for i, v := range train {
		values[i] = []float64{v}
	}
	w, err := dataset.BuildWindows(values, 1, 0, 0)
	if err != nil {
		log.Error().Err(err).Msg("window price series")
		return
	}

	s := search.New(log)
	res, err := s.SelectBest("arima", w)
	if err != nil {
		log.Error().Err(err).Msg("arima sweep failed")
		return
	}

	reg := res.Model.(*model.ArimaRegressor)
	if err := reg.Fit(nil, train); err != nil {
		log.Error().Err(err).Msg("arima fit failed")
		return
	}
	forecasts, err := reg.UpdateBatch(test)
	if err != nil {
		log.Error().Err(err).Msg("walk-forward forecast failed")
		return
	}

	rmse := model.RMSE(forecasts, test)
	mape := 0.0
	for i := range test {
		mape += math.Abs((test[i] - forecasts[i]) / test[i])
	}
	mape = 100 * mape / float64(len(test))

	sum := reg.Summary()
	log.Info().
		Fields(map[string]any{"params": res.Params}).
		Float64("rmse", rmse).
		Float64("mape", mape).
		Float64("aic", sum.AIC).
		Float64("bic", sum.BIC).
		Float64("ljung_box_p", sum.LjungBox.PValue).
		Msg("walk-forward arima complete")
}
