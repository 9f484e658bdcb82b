package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"screening/internal/config"
	"screening/internal/features"
	"screening/internal/predict"
	"screening/internal/questionnaire"
	"screening/internal/session"
	"screening/pkg/utils"
)

func main() {
	var configPath, modelPath, reportPath, name string
	cmd := &cobra.Command{
		Use:           "questionnaire",
		Short:         "Answer the screening questionnaire in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if modelPath != "" {
				cfg.Model.Path = modelPath
			}
			return run(cmd.Context(), cfg, questionnaire.NewSurveyDriver(), name, reportPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML or TOML config file")
	cmd.Flags().StringVar(&modelPath, "model", "", "model artifact (defaults to the configured path)")
	cmd.Flags().StringVar(&name, "name", "", "name shown in the session report")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the session report as JSON to this file")
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, questionnaire.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "questionnaire:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, d questionnaire.PromptDriver, name, reportPath string) error {
	logger := utils.Logger()
	defer func() { _ = logger.Sync() }()

	schema, err := features.Lookup(cfg.Model.Schema)
	if err != nil {
		return err
	}
	p, err := predict.Open(cfg.Model.Path, schema, predict.WithCopy(cfg.Copy))
	if err != nil {
		return fmt.Errorf("%w (run the trainer first)", err)
	}

	if err := d.Info(ctx, cfg.Copy.Title+"\n"+cfg.Copy.Disclaimer+"\n"); err != nil {
		return err
	}
	store := session.NewStore()
	sess := store.Create(session.Profile{DisplayName: name})
	for {
		answers, err := questionnaire.Run(ctx, schema, d)
		if err != nil {
			return err
		}
		pr, err := p.PredictAnswers(answers)
		if err != nil {
			return err
		}
		if _, err := store.Record(sess.ID, answers, pr); err != nil {
			return err
		}
		logger.Debug("screening scored", zap.Int("label", pr.Label), zap.Float64("p1", pr.Probabilities[1]))
		if err := questionnaire.Present(ctx, d, cfg.Copy, pr); err != nil {
			return err
		}
		again, err := d.Confirm(ctx, questionnaire.ConfirmConfig{Message: "Screen someone else?"})
		if err != nil {
			return err
		}
		if !again {
			break
		}
	}

	if reportPath == "" {
		return nil
	}
	rep, err := store.Report(sess.ID)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(reportPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(reportPath, raw, 0o644); err != nil {
		return err
	}
	return d.Info(ctx, "report written to "+reportPath)
}
