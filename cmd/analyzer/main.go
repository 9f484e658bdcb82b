package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"screening/internal/artifact"
	"screening/internal/config"
	"screening/internal/data"
	"screening/internal/features"
	"screening/internal/training"
	"screening/pkg/utils"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "analyzer:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Inspect datasets and trained screening models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML or TOML config file")
	root.AddCommand(newCurveCmd(out), newReportCmd(out))
	return root
}

func loadConfig(cmd *cobra.Command) (config.Config, *features.Schema, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	schema, err := features.Lookup(cfg.Model.Schema)
	return cfg, schema, err
}

func newCurveCmd(out io.Writer) *cobra.Command {
	var (
		dataPath, outCSV, outPNG string
		points, minSize          int
		algo                     string
	)
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Compute a learning curve over a dataset CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, schema, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if algo != "" {
				cfg.Model.Algorithm = algo
			}
			if !cmd.Flags().Changed("points") {
				points = cfg.Training.CurvePoints
			}
			if !cmd.Flags().Changed("min") {
				minSize = cfg.Training.CurveMin
			}
			return curve(cmd.Context(), out, cfg, schema, dataPath, points, minSize, outCSV, outPNG)
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "data/synthetic.csv", "dataset CSV")
	cmd.Flags().StringVar(&algo, "algo", "", "algorithm override: rf|dt|bagging|gb")
	cmd.Flags().IntVar(&points, "points", 8, "points on the curve")
	cmd.Flags().IntVar(&minSize, "min", 50, "smallest training size")
	cmd.Flags().StringVar(&outCSV, "out-csv", "data/learning_curve.csv", "CSV output")
	cmd.Flags().StringVar(&outPNG, "out-png", "data/learning_curve.png", "PNG output")
	return cmd
}

func curve(ctx context.Context, out io.Writer, cfg config.Config, schema *features.Schema, dataPath string, points, minSize int, outCSV, outPNG string) error {
	logger := utils.Logger()
	ds, err := data.ReadCSV(dataPath, schema)
	if err != nil {
		return err
	}
	tr := training.New(training.Options{
		Algorithm:    cfg.Model.Algorithm,
		Params:       cfg.Forest,
		TestFraction: cfg.Training.TestFraction,
		Seed:         cfg.Training.Seed,
	}, logger)
	train, test, err := training.StratifiedSplit(ds, cfg.Training.TestFraction, cfg.Training.Seed)
	if err != nil {
		return err
	}
	sizes := training.CurveSizes(train.Len(), points, minSize, cfg.Training.CurveLog)
	pts, err := tr.LearningCurve(ctx, train, test, sizes)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "size\ttrain_acc\ttest_acc\ttrain_f1\ttest_f1")
	for _, p := range pts {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\n", p.Size, p.TrainAcc, p.TestAcc, p.TrainF1, p.TestF1)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := training.WriteCurveCSV(outCSV, pts); err != nil {
		return err
	}
	if err := training.PlotCurvePNG(outPNG, pts); err != nil {
		logger.Warn("curve plot failed", zap.Error(err))
	}
	fmt.Fprintf(out, "curve saved to %s and %s\n", outCSV, outPNG)
	return nil
}

func newReportCmd(out io.Writer) *cobra.Command {
	var modelPath, dataPath, importancePNG string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Describe a saved model, optionally re-scoring it on a dataset CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, schema, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if modelPath == "" {
				modelPath = cfg.Model.Path
			}
			a, err := artifact.Load(modelPath, schema)
			if err != nil {
				return err
			}
			report(out, a)
			if importancePNG != "" && len(a.Importances) > 0 {
				if err := training.PlotImportancePNG(importancePNG, a.Importances); err != nil {
					return err
				}
			}
			if dataPath == "" {
				return nil
			}
			ds, err := data.ReadCSV(dataPath, schema)
			if err != nil {
				return err
			}
			m := training.Evaluate(a.Model, ds)
			fmt.Fprintf(out, "\nrescored on %s (%d samples)\n", dataPath, ds.Len())
			printMetrics(out, m)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model artifact (defaults to the configured path)")
	cmd.Flags().StringVar(&dataPath, "data", "", "dataset CSV to re-score the model on")
	cmd.Flags().StringVar(&importancePNG, "importance-png", "", "write a feature importance chart")
	return cmd
}

func report(out io.Writer, a *artifact.Artifact) {
	fmt.Fprintf(out, "schema     %s\n", a.Schema)
	fmt.Fprintf(out, "algorithm  %s (%s)\n", a.Algorithm, a.Model.Name())
	fmt.Fprintf(out, "trained    %s\n", a.TrainedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "params     estimators=%d max_depth=%d min_samples=%d lr=%.3g seed=%d\n",
		a.Params.Estimators, a.Params.MaxDepth, a.Params.MinSamplesSplit, a.Params.LearningRate, a.Params.Seed)
	printMetrics(out, a.Metrics)
	if len(a.Importances) == 0 {
		return
	}
	fmt.Fprintln(out, "\nfeature importances")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, fi := range a.Importances {
		fmt.Fprintf(w, "  %s\t%.4f\n", fi.Feature, fi.Importance)
	}
	_ = w.Flush()
}

func printMetrics(out io.Writer, m training.Metrics) {
	fmt.Fprintf(out, "accuracy   %.4f\nroc_auc    %.4f\npr_auc     %.4f\n", m.Accuracy, m.ROCAUC, m.PRAUC)
	c := m.Confusion
	fmt.Fprintf(out, "confusion  tn=%d fp=%d fn=%d tp=%d\n", c.TN, c.FP, c.FN, c.TP)
	if m.CV != nil {
		fmt.Fprintf(out, "cv         %d folds mean=%.4f std=%.4f\n", m.CV.Folds, m.CV.Mean, m.CV.Std)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "label\tprecision\trecall\tf1\tsupport")
	for _, r := range m.Report {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%d\n", r.Label, r.Precision, r.Recall, r.F1, r.Support)
	}
	_ = w.Flush()
}
