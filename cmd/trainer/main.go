package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"screening/internal/artifact"
	"screening/internal/config"
	"screening/internal/data"
	"screening/internal/features"
	"screening/internal/training"
	"screening/pkg/utils"
)

type flags struct {
	configPath    string
	dataPath      string
	curve         bool
	curveCSV      string
	curvePNG      string
	importancePNG string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trainer:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:           "trainer",
		Short:         "Generate a synthetic screening dataset, train a classifier and save it",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			overlay(cmd, &loaded, &cfg)
			if err := config.Validate(loaded); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, loaded, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML or TOML config file")
	fl.StringVar(&f.dataPath, "data", "", "train on this CSV instead of generating a dataset")
	fl.StringVar(&cfg.Model.Schema, "schema", cfg.Model.Schema, "feature schema: aq10|behavioral")
	fl.StringVar(&cfg.Model.Path, "out", cfg.Model.Path, "where to write the model artifact")
	fl.StringVar(&cfg.Model.Algorithm, "algo", cfg.Model.Algorithm, "algorithm: rf|dt|bagging|gb")
	fl.IntVar(&cfg.Generator.Samples, "n", cfg.Generator.Samples, "number of synthetic samples")
	fl.Int64Var(&cfg.Generator.Seed, "seed", cfg.Generator.Seed, "generator seed")
	fl.StringVar(&cfg.Generator.Output, "csv-out", cfg.Generator.Output, "also write the generated dataset to this CSV")
	fl.IntVar(&cfg.Forest.Estimators, "estimators", cfg.Forest.Estimators, "number of estimators (rf/bagging/gb)")
	fl.IntVar(&cfg.Forest.MaxDepth, "max-depth", cfg.Forest.MaxDepth, "maximum tree depth")
	fl.IntVar(&cfg.Forest.MinSamplesSplit, "min-samples", cfg.Forest.MinSamplesSplit, "minimum samples to split a node")
	fl.Float64Var(&cfg.Forest.LearningRate, "lr", cfg.Forest.LearningRate, "learning rate (gb)")
	fl.Float64Var(&cfg.Training.TestFraction, "test-fraction", cfg.Training.TestFraction, "held-out fraction per class")
	fl.IntVar(&cfg.Training.Folds, "folds", cfg.Training.Folds, "cross-validation folds, 0 disables")
	fl.BoolVar(&f.curve, "curve", false, "compute a learning curve")
	fl.IntVar(&cfg.Training.CurvePoints, "curve-points", cfg.Training.CurvePoints, "points on the learning curve")
	fl.IntVar(&cfg.Training.CurveMin, "curve-min", cfg.Training.CurveMin, "smallest training size on the curve")
	fl.BoolVar(&cfg.Training.CurveLog, "curve-log", cfg.Training.CurveLog, "log-spaced curve sizes")
	fl.StringVar(&f.curveCSV, "curve-csv", "data/learning_curve.csv", "learning curve CSV")
	fl.StringVar(&f.curvePNG, "curve-png", "data/learning_curve.png", "learning curve PNG")
	fl.StringVar(&f.importancePNG, "importance-png", "", "feature importance PNG")
	return cmd
}

// overlay copies every flag the user actually set from flagged onto dst, so
// flags win over the config file and the file wins over defaults.
func overlay(cmd *cobra.Command, dst, flagged *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("schema", func() { dst.Model.Schema = flagged.Model.Schema })
	set("out", func() { dst.Model.Path = flagged.Model.Path })
	set("algo", func() { dst.Model.Algorithm = flagged.Model.Algorithm })
	set("n", func() { dst.Generator.Samples = flagged.Generator.Samples })
	set("seed", func() { dst.Generator.Seed = flagged.Generator.Seed })
	set("csv-out", func() { dst.Generator.Output = flagged.Generator.Output })
	set("estimators", func() { dst.Forest.Estimators = flagged.Forest.Estimators })
	set("max-depth", func() { dst.Forest.MaxDepth = flagged.Forest.MaxDepth })
	set("min-samples", func() { dst.Forest.MinSamplesSplit = flagged.Forest.MinSamplesSplit })
	set("lr", func() { dst.Forest.LearningRate = flagged.Forest.LearningRate })
	set("test-fraction", func() { dst.Training.TestFraction = flagged.Training.TestFraction })
	set("folds", func() { dst.Training.Folds = flagged.Training.Folds })
	set("curve-points", func() { dst.Training.CurvePoints = flagged.Training.CurvePoints })
	set("curve-min", func() { dst.Training.CurveMin = flagged.Training.CurveMin })
	set("curve-log", func() { dst.Training.CurveLog = flagged.Training.CurveLog })
}

func run(ctx context.Context, cfg config.Config, f flags) error {
	logger := utils.Logger()
	defer func() { _ = logger.Sync() }()

	schema, err := features.Lookup(cfg.Model.Schema)
	if err != nil {
		return err
	}

	var ds *data.Dataset
	if f.dataPath != "" {
		logger.Info("reading dataset", zap.String("path", f.dataPath))
		if ds, err = data.ReadCSV(f.dataPath, schema); err != nil {
			logger.Error("read dataset failed", zap.Error(err))
			return err
		}
	} else {
		logger.Info("generating synthetic dataset",
			zap.String("schema", schema.Ref().String()),
			zap.Int("n", cfg.Generator.Samples),
			zap.Int64("seed", cfg.Generator.Seed),
		)
		if ds, err = data.NewGenerator(schema).Generate(cfg.Generator.Samples, cfg.Generator.Seed); err != nil {
			logger.Error("generate dataset failed", zap.Error(err))
			return err
		}
		if cfg.Generator.Output != "" {
			if err := ds.WriteCSV(cfg.Generator.Output); err != nil {
				return err
			}
			logger.Info("dataset written", zap.String("path", cfg.Generator.Output))
		}
	}

	opts := training.Options{
		Algorithm:    cfg.Model.Algorithm,
		Params:       cfg.Forest,
		TestFraction: cfg.Training.TestFraction,
		Folds:        cfg.Training.Folds,
		Seed:         cfg.Training.Seed,
	}
	tr := training.New(opts, logger)
	res, err := tr.Train(ctx, ds)
	if err != nil {
		logger.Error("training failed", zap.Error(err))
		return err
	}
	for _, r := range res.Metrics.Report {
		logger.Info("class report",
			zap.Int("label", r.Label),
			zap.Float64("precision", r.Precision),
			zap.Float64("recall", r.Recall),
			zap.Float64("f1", r.F1),
			zap.Int("support", r.Support),
		)
	}
	for i, fi := range res.Importances {
		if i == 5 {
			break
		}
		logger.Info("feature importance", zap.String("feature", fi.Feature), zap.Float64("importance", fi.Importance))
	}

	art := artifact.FromResult(schema, opts.Algorithm, opts.Params, res)
	if err := artifact.Save(cfg.Model.Path, art); err != nil {
		logger.Error("save model failed", zap.Error(err))
		return err
	}
	logger.Info("model saved", zap.String("path", cfg.Model.Path), zap.String("model", res.Model.Name()))
	fmt.Printf("accuracy=%.3f roc_auc=%.3f model=%s\n", res.Metrics.Accuracy, res.Metrics.ROCAUC, cfg.Model.Path)

	if f.importancePNG != "" && len(res.Importances) > 0 {
		if err := training.PlotImportancePNG(f.importancePNG, res.Importances); err != nil {
			logger.Warn("importance plot failed", zap.Error(err))
		}
	}
	if !f.curve {
		return nil
	}
	sizes := training.CurveSizes(res.Train.Len(), cfg.Training.CurvePoints, cfg.Training.CurveMin, cfg.Training.CurveLog)
	points, err := tr.LearningCurve(ctx, res.Train, res.Test, sizes)
	if err != nil {
		logger.Error("learning curve failed", zap.Error(err))
		return err
	}
	if err := training.WriteCurveCSV(f.curveCSV, points); err != nil {
		return err
	}
	if err := training.PlotCurvePNG(f.curvePNG, points); err != nil {
		logger.Warn("curve plot failed", zap.Error(err))
	}
	logger.Info("learning curve written", zap.String("csv", f.curveCSV), zap.String("png", f.curvePNG))
	return nil
}
