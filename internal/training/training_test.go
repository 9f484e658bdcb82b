package training

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screening/internal/data"
	apperrors "screening/internal/errors"
	"screening/internal/features"
	"screening/internal/models"
)

func generate(t *testing.T, n int, seed int64) *data.Dataset {
	t.Helper()
	ds, err := data.NewGenerator(features.AQ10).Generate(n, seed)
	require.NoError(t, err)
	return ds
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.Params.Estimators = 30
	return opts
}

func TestTrainHeldOutAccuracy(t *testing.T) {
	ds := generate(t, 1000, 42)
	res, err := New(DefaultOptions(), nil).Train(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 800, res.Train.Len())
	assert.Equal(t, 200, res.Test.Len())
	assert.GreaterOrEqual(t, res.Metrics.Accuracy, 0.75)
	assert.Greater(t, res.Metrics.ROCAUC, 0.8)

	require.NotNil(t, res.Metrics.CV)
	assert.Len(t, res.Metrics.CV.Scores, 5)
	assert.GreaterOrEqual(t, res.Metrics.CV.Mean, 0.75)

	c := res.Metrics.Confusion
	assert.Equal(t, res.Test.Len(), c.TN+c.FP+c.FN+c.TP)
	require.Len(t, res.Metrics.Report, 2)
	assert.Equal(t, c.TP+c.FN, res.Metrics.Report[1].Support)

	require.Len(t, res.Importances, features.NumFeatures)
	assert.GreaterOrEqual(t, res.Importances[0].Importance, res.Importances[len(res.Importances)-1].Importance)
}

func TestTrainIsDeterministic(t *testing.T) {
	ds := generate(t, 400, 7)
	opts := fastOptions()
	opts.Folds = 0

	a, err := New(opts, nil).Train(context.Background(), ds)
	require.NoError(t, err)
	b, err := New(opts, nil).Train(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, a.Metrics, b.Metrics)
}

func TestTrainInsufficientData(t *testing.T) {
	ds := generate(t, 200, 1)
	var onlyNegative []data.LabeledSample
	for _, s := range ds.Samples {
		if s.Label == 0 {
			onlyNegative = append(onlyNegative, s)
		}
	}
	onlyNegative = append(onlyNegative, data.LabeledSample{Label: 1})
	single := &data.Dataset{Schema: features.AQ10, Samples: onlyNegative}

	_, err := New(fastOptions(), nil).Train(context.Background(), single)
	assert.True(t, apperrors.Is(err, apperrors.CategoryInsufficientData), "got %v", err)
}

func TestTrainTooFewForFolds(t *testing.T) {
	ds := &data.Dataset{Schema: features.AQ10, Samples: []data.LabeledSample{
		{Label: 0}, {Label: 0}, {Label: 0}, {Label: 1}, {Label: 1}, {Label: 1},
	}}
	opts := fastOptions()
	opts.Folds = 5
	_, err := New(opts, nil).Train(context.Background(), ds)
	assert.True(t, apperrors.Is(err, apperrors.CategoryInsufficientData))

	opts.Folds = 0
	_, err = New(opts, nil).Train(context.Background(), ds)
	assert.NoError(t, err)
}

func TestTrainRejectsBadOptions(t *testing.T) {
	ds := generate(t, 100, 1)

	opts := fastOptions()
	opts.TestFraction = 1
	_, err := New(opts, nil).Train(context.Background(), ds)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))

	opts = fastOptions()
	opts.Algorithm = "knn"
	_, err = New(opts, nil).Train(context.Background(), ds)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))
}

func TestTrainRequiresSchema(t *testing.T) {
	ds := generate(t, 100, 1)
	ds.Schema = nil
	_, err := New(fastOptions(), nil).Train(context.Background(), ds)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration), "got %v", err)

	_, err = New(fastOptions(), nil).Train(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))
}

func TestTrainHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(fastOptions(), nil).Train(ctx, generate(t, 100, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStratifiedSplit(t *testing.T) {
	ds := generate(t, 1000, 42)
	train, test, err := StratifiedSplit(ds, 0.2, 42)
	require.NoError(t, err)

	neg, pos := ds.ClassCounts()
	tneg, tpos := test.ClassCounts()
	assert.InDelta(t, 0.2*float64(neg), float64(tneg), 1)
	assert.InDelta(t, 0.2*float64(pos), float64(tpos), 1)
	assert.Equal(t, ds.Len(), train.Len()+test.Len())

	again, _, err := StratifiedSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train.Samples, again.Samples)
}

func TestStratifiedSplitMinimal(t *testing.T) {
	ds := &data.Dataset{Schema: features.AQ10, Samples: []data.LabeledSample{
		{Label: 0}, {Label: 0}, {Label: 1}, {Label: 1},
	}}
	train, test, err := StratifiedSplit(ds, 0.2, 1)
	require.NoError(t, err)
	neg, pos := train.ClassCounts()
	assert.Equal(t, [2]int{1, 1}, [2]int{neg, pos})
	neg, pos = test.ClassCounts()
	assert.Equal(t, [2]int{1, 1}, [2]int{neg, pos})
}

func TestStratifiedFoldsCoverEverySample(t *testing.T) {
	ds := generate(t, 103, 5)
	folds, err := StratifiedFolds(ds, 5, 1)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, f := range folds {
		for _, i := range f {
			assert.False(t, seen[i])
			seen[i] = true
		}
	}
	assert.Len(t, seen, ds.Len())

	_, err = StratifiedFolds(ds, 1, 1)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))
}

func TestMetrics(t *testing.T) {
	y := []int{0, 0, 1, 1, 1}
	p := []int{0, 1, 1, 1, 0}
	c := confusion(y, p)
	assert.Equal(t, Confusion{TN: 1, FP: 1, FN: 1, TP: 2}, c)
	assert.InDelta(t, 0.6, accuracy(y, p), 1e-12)

	rep := classificationReport(c)
	assert.InDelta(t, 0.5, rep[0].Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, rep[1].Recall, 1e-12)
	assert.Equal(t, 2, rep[0].Support)
	assert.Equal(t, 3, rep[1].Support)

	assert.InDelta(t, 1.0, rocAUC([]int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}), 1e-12)
	assert.InDelta(t, 0.0, rocAUC([]int{0, 0, 1, 1}, []float64{0.9, 0.8, 0.2, 0.1}), 1e-12)
	assert.InDelta(t, 0.5, rocAUC([]int{0, 1}, []float64{0.5, 0.5}), 1e-12)
	assert.Equal(t, 0.0, rocAUC([]int{1, 1}, []float64{0.5, 0.5}))
	assert.InDelta(t, 1.0, prAUC([]int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}), 1e-12)
	assert.Equal(t, 0.0, prAUC([]int{0, 0}, []float64{0.3, 0.7}))
}

func TestPRAUCIgnoresOrderOfTies(t *testing.T) {
	assert.InDelta(t, 0.5, prAUC([]int{1, 0}, []float64{0.5, 0.5}), 1e-12)
	assert.InDelta(t, 0.5, prAUC([]int{0, 1}, []float64{0.5, 0.5}), 1e-12)

	// same samples, tied block in a different order
	y := []int{1, 0, 1, 0, 1}
	s := []float64{0.9, 0.6, 0.6, 0.6, 0.2}
	yp := []int{1, 1, 0, 0, 1}
	sp := []float64{0.2, 0.6, 0.6, 0.6, 0.9}
	assert.InDelta(t, prAUC(y, s), prAUC(yp, sp), 1e-12)
}

func TestCurveSizes(t *testing.T) {
	sizes := CurveSizes(800, 6, 50, true)
	require.NotEmpty(t, sizes)
	assert.Equal(t, 50, sizes[0])
	assert.Equal(t, 800, sizes[len(sizes)-1])
	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i], sizes[i-1])
	}

	assert.Equal(t, []int{10, 20, 30}, CurveSizes(30, 3, 10, false))
	assert.Nil(t, CurveSizes(0, 3, 10, false))
}

func TestLearningCurveAndPlots(t *testing.T) {
	ds := generate(t, 500, 11)
	opts := fastOptions()
	opts.Params.Estimators = 10
	tr := New(opts, nil)
	train, test, err := StratifiedSplit(ds, 0.2, 1)
	require.NoError(t, err)

	points, err := tr.LearningCurve(context.Background(), train, test, CurveSizes(train.Len(), 4, 50, true))
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, train.Len(), points[3].Size)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "curve.csv")
	require.NoError(t, WriteCurveCSV(csvPath, points))
	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "size,train_acc,test_acc,train_f1,test_f1")

	require.NoError(t, PlotCurvePNG(filepath.Join(dir, "img", "curve.png"), points))
	mdl, err := models.New(models.AlgoRandomForest, opts.Params)
	require.NoError(t, err)
	X, y := train.XY()
	require.NoError(t, mdl.Fit(X, y))
	require.NoError(t, PlotImportancePNG(filepath.Join(dir, "img", "importance.png"), Importances(mdl, features.AQ10.FeatureNames())))
	assert.FileExists(t, filepath.Join(dir, "img", "importance.png"))
}
