package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	apperrors "screening/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"MODEL_PATH", "MODEL_ALGO", "SCHEMA", "PORT", "API_KEY"} {
		t.Setenv(k, "")
	}
}

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := write(t, "screening.yaml", `
model:
  algorithm: gb
  schema: behavioral
forest:
  estimators: 25
  learning_rate: 0.2
server:
  port: "9090"
copy:
  risk:
    moderate: 0.3
    high: 0.8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Model.Algorithm = "gb"
	want.Model.Schema = "behavioral"
	want.Forest.Estimators = 25
	want.Forest.LearningRate = 0.2
	want.Server.Port = "9090"
	want.Copy.Risk = RiskThresholds{Moderate: 0.3, High: 0.8}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := write(t, "screening.toml", `
[model]
path = "out/model.gob"

[training]
folds = 0
test_fraction = 0.25
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out/model.gob", cfg.Model.Path)
	assert.Equal(t, 0, cfg.Training.Folds)
	assert.Equal(t, 0.25, cfg.Training.TestFraction)
	assert.Equal(t, Default().Forest, cfg.Forest)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_PATH", "/tmp/m.gob")
	t.Setenv("MODEL_ALGO", "BAGGING")
	t.Setenv("SCHEMA", "behavioral")
	t.Setenv("PORT", "7000")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/m.gob", cfg.Model.Path)
	assert.Equal(t, "bagging", cfg.Model.Algorithm)
	assert.Equal(t, "behavioral", cfg.Model.Schema)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
}

func TestValidationAggregatesFields(t *testing.T) {
	cfg := Default()
	cfg.Model.Algorithm = "svm"
	cfg.Training.TestFraction = 1.5
	cfg.Copy.Risk = RiskThresholds{Moderate: 0.9, High: 0.5}

	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))

	appErr := apperrors.ToAppError(err)
	errs := multierr.Errors(appErr.Unwrap())
	assert.Len(t, errs, 3)
	assert.Contains(t, err.Error(), "Algorithm")
	assert.Contains(t, err.Error(), "TestFraction")
	assert.Contains(t, err.Error(), "Moderate")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml")},
		{"unknown extension", write(t, "screening.ini", "x=1")},
		{"bad yaml", write(t, "bad.yaml", "model: [")},
		{"bad toml", write(t, "bad.toml", "[model")},
		{"invalid values", write(t, "zero.yaml", "generator:\n  samples: 0\n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration), "got %v", err)
		})
	}
}

func TestRiskBand(t *testing.T) {
	r := Default().Copy.Risk
	assert.Equal(t, "low", r.Band(0.1))
	assert.Equal(t, "moderate", r.Band(0.4))
	assert.Equal(t, "moderate", r.Band(0.69))
	assert.Equal(t, "high", r.Band(0.7))
}
