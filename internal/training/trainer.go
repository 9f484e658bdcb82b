package training

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"screening/internal/data"
	apperrors "screening/internal/errors"
	"screening/internal/models"
)

// Options configures a training run.
type Options struct {
	Algorithm    string
	Params       models.Params
	TestFraction float64
	// Folds is the number of cross-validation folds; 0 disables cross-validation.
	Folds int
	// Seed drives the train/test split and fold assignment.
	Seed int64
}

func DefaultOptions() Options {
	return Options{Algorithm: models.AlgoRandomForest, Params: models.DefaultParams(), TestFraction: 0.2, Folds: 5, Seed: 42}
}

// Metrics are computed on the held-out split.
type Metrics struct {
	Accuracy  float64          `json:"accuracy"`
	Confusion Confusion        `json:"confusion"`
	Report    []ClassReport    `json:"report"`
	ROCAUC    float64          `json:"roc_auc"`
	PRAUC     float64          `json:"pr_auc"`
	CV        *CrossValidation `json:"cross_validation,omitempty"`
}

type CrossValidation struct {
	Folds  int       `json:"folds"`
	Scores []float64 `json:"scores"`
	Mean   float64   `json:"mean"`
	Std    float64   `json:"std"`
}

type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Result is a fitted model with its evaluation.
type Result struct {
	Model       models.Model
	Metrics     Metrics
	Importances []FeatureImportance
	Train       *data.Dataset
	Test        *data.Dataset
	Duration    time.Duration
}

type Trainer struct {
	opts   Options
	logger *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{opts: opts, logger: logger}
}

// Train splits ds, fits the configured model, evaluates it on the held-out part
// and optionally cross-validates on the whole dataset.
func (t *Trainer) Train(ctx context.Context, ds *data.Dataset) (*Result, error) {
	if ds == nil || ds.Schema == nil {
		return nil, apperrors.NewConfigurationError("dataset has no feature schema", nil)
	}
	start := time.Now()
	train, test, err := StratifiedSplit(ds, t.opts.TestFraction, t.opts.Seed)
	if err != nil {
		return nil, err
	}
	neg, pos := ds.ClassCounts()
	t.logger.Info("class distribution",
		zap.Int("positive", pos),
		zap.Int("negative", neg),
		zap.Int("train", train.Len()),
		zap.Int("test", test.Len()),
	)

	mdl, err := models.New(t.opts.Algorithm, t.opts.Params)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	Xtrain, ytrain := train.XY()
	if err := mdl.Fit(Xtrain, ytrain); err != nil {
		return nil, apperrors.NewInternalError("fit "+mdl.Name(), err)
	}

	res := &Result{Model: mdl, Train: train, Test: test}
	res.Metrics = Evaluate(mdl, test)
	res.Importances = Importances(mdl, ds.Schema.FeatureNames())

	if t.opts.Folds > 0 {
		cv, err := t.CrossValidate(ctx, ds)
		if err != nil {
			return nil, err
		}
		res.Metrics.CV = cv
	}
	res.Duration = time.Since(start)

	fields := []zap.Field{
		zap.String("model", mdl.Name()),
		zap.Float64("accuracy", res.Metrics.Accuracy),
		zap.Float64("roc_auc", res.Metrics.ROCAUC),
		zap.Float64("pr_auc", res.Metrics.PRAUC),
		zap.Duration("took", res.Duration),
	}
	if cv := res.Metrics.CV; cv != nil {
		fields = append(fields, zap.Float64("cv_mean", cv.Mean), zap.Float64("cv_std", cv.Std))
	}
	t.logger.Info("holdout metrics", fields...)
	return res, nil
}

// Evaluate scores a fitted model on ds.
func Evaluate(mdl models.Model, ds *data.Dataset) Metrics {
	X, y := ds.XY()
	proba := mdl.PredictProba(X)
	preds := mdl.Predict(X)
	c := confusion(y, preds)
	return Metrics{
		Accuracy:  accuracy(y, preds),
		Confusion: c,
		Report:    classificationReport(c),
		ROCAUC:    rocAUC(y, proba),
		PRAUC:     prAUC(y, proba),
	}
}

// Importances pairs the model's feature importances with names, most important first.
// Models that cannot rank features yield nil.
func Importances(mdl models.Model, names []string) []FeatureImportance {
	imp, ok := mdl.(models.Importancer)
	if !ok {
		return nil
	}
	vals := imp.FeatureImportances()
	out := make([]FeatureImportance, 0, len(vals))
	for j, v := range vals {
		if j < len(names) {
			out = append(out, FeatureImportance{Feature: names[j], Importance: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// CrossValidate runs stratified k-fold cross-validation, fitting folds concurrently.
func (t *Trainer) CrossValidate(ctx context.Context, ds *data.Dataset) (*CrossValidation, error) {
	folds, err := StratifiedFolds(ds, t.opts.Folds, t.opts.Seed)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(folds))
	g, ctx := errgroup.WithContext(ctx)
	for k := range folds {
		k := k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var trainIdx []int
			for other, idx := range folds {
				if other != k {
					trainIdx = append(trainIdx, idx...)
				}
			}
			mdl, err := models.New(t.opts.Algorithm, t.opts.Params)
			if err != nil {
				return err
			}
			X, y := ds.Subset(trainIdx).XY()
			if err := mdl.Fit(X, y); err != nil {
				return apperrors.NewInternalError("fit fold", err)
			}
			Xk, yk := ds.Subset(folds[k]).XY()
			scores[k] = accuracy(yk, mdl.Predict(Xk))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	mean, std := stat.MeanStdDev(scores, nil)
	return &CrossValidation{Folds: len(folds), Scores: scores, Mean: mean, Std: std}, nil
}
