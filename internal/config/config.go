// Package config loads the settings shared by the trainer, the API and the terminal tools.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"

	apperrors "screening/internal/errors"
	"screening/internal/models"
)

type Config struct {
	Model     ModelConfig     `yaml:"model" toml:"model"`
	Generator GeneratorConfig `yaml:"generator" toml:"generator"`
	Forest    models.Params   `yaml:"forest" toml:"forest"`
	Training  TrainingConfig  `yaml:"training" toml:"training"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Copy      Copy            `yaml:"copy" toml:"copy"`
}

type ModelConfig struct {
	Path      string `yaml:"path" toml:"path" validate:"required"`
	Algorithm string `yaml:"algorithm" toml:"algorithm" validate:"oneof=rf dt bagging gb"`
	Schema    string `yaml:"schema" toml:"schema" validate:"oneof=aq10 behavioral"`
}

type GeneratorConfig struct {
	Samples int   `yaml:"samples" toml:"samples" validate:"min=1"`
	Seed    int64 `yaml:"seed" toml:"seed"`
	// Output, when set, is where the trainer writes the generated CSV.
	Output string `yaml:"output" toml:"output"`
}

type TrainingConfig struct {
	TestFraction float64 `yaml:"test_fraction" toml:"test_fraction" validate:"gt=0,lt=1"`
	Folds        int     `yaml:"folds" toml:"folds" validate:"min=0"`
	Seed         int64   `yaml:"seed" toml:"seed"`
	CurvePoints  int     `yaml:"curve_points" toml:"curve_points" validate:"min=2"`
	CurveMin     int     `yaml:"curve_min" toml:"curve_min" validate:"min=1"`
	CurveLog     bool    `yaml:"curve_log" toml:"curve_log"`
}

type ServerConfig struct {
	Port   string `yaml:"port" toml:"port" validate:"required,numeric"`
	APIKey string `yaml:"api_key" toml:"api_key"`
	Mode   string `yaml:"mode" toml:"mode" validate:"oneof=debug release test"`
}

// Copy is the user-facing text. None of it affects scoring.
type Copy struct {
	Title      string         `yaml:"title" toml:"title" validate:"required"`
	Disclaimer string         `yaml:"disclaimer" toml:"disclaimer" validate:"required"`
	About      string         `yaml:"about" toml:"about"`
	Likelihood LikelihoodCopy `yaml:"likelihood" toml:"likelihood"`
	Risk       RiskThresholds `yaml:"risk" toml:"risk"`
}

type LikelihoodCopy struct {
	Higher string `yaml:"higher" toml:"higher" validate:"required"`
	Lower  string `yaml:"lower" toml:"lower" validate:"required"`
}

// RiskThresholds split P(1) into low, moderate and high bands.
type RiskThresholds struct {
	Moderate float64 `yaml:"moderate" toml:"moderate" validate:"gt=0,lt=1,ltfield=High"`
	High     float64 `yaml:"high" toml:"high" validate:"gt=0,lte=1"`
}

// Band names P(1) according to the thresholds.
func (r RiskThresholds) Band(p float64) string {
	switch {
	case p >= r.High:
		return "high"
	case p >= r.Moderate:
		return "moderate"
	default:
		return "low"
	}
}

const about = `This tool estimates, from ten yes/no behavioral questions plus age and gender,
how likely the answers are to come from someone with autism spectrum traits.

1. Questionnaire: answer 10 behavioral questions.
2. Analysis: a tree ensemble scores the response pattern.
3. Assessment: you get a likelihood with a confidence score.

The model is trained on synthetic data and has not been validated on clinical populations.`

func Default() Config {
	return Config{
		Model: ModelConfig{
			Path:      filepath.Join("models", "screening_model.gob"),
			Algorithm: models.AlgoRandomForest,
			Schema:    "aq10",
		},
		Generator: GeneratorConfig{Samples: 1000, Seed: 42},
		Forest:    models.DefaultParams(),
		Training: TrainingConfig{
			TestFraction: 0.2,
			Folds:        5,
			Seed:         42,
			CurvePoints:  8,
			CurveMin:     50,
			CurveLog:     true,
		},
		Server: ServerConfig{Port: "8080", Mode: "release"},
		Copy: Copy{
			Title:      "Autism Spectrum Screening",
			Disclaimer: "This is a screening tool only, not a diagnostic instrument. Always consult a qualified healthcare professional.",
			About:      about,
			Likelihood: LikelihoodCopy{
				Higher: "Higher likelihood detected. Please consult a qualified healthcare professional for a comprehensive evaluation.",
				Lower:  "Lower likelihood detected. Consult a professional if you still have concerns.",
			},
			Risk: RiskThresholds{Moderate: 0.4, High: 0.7},
		},
	}
}

// Load reads path (YAML or TOML by extension) over the defaults, applies
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, apperrors.NewConfigurationError("read config "+path, err)
		}
		if err := decode(path, raw, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, raw []byte, cfg *Config) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".toml":
		err = toml.Unmarshal(raw, cfg)
	default:
		return apperrors.NewConfigurationError("unsupported config format "+ext, nil)
	}
	if err != nil {
		return apperrors.NewConfigurationError("parse config "+path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("MODEL_ALGO"); v != "" {
		cfg.Model.Algorithm = strings.ToLower(v)
	}
	if v := os.Getenv("SCHEMA"); v != "" {
		cfg.Model.Schema = strings.ToLower(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
}

var validate = validator.New()

// Validate reports every invalid field at once.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigurationError("validate config", err)
	}
	var all error
	for _, fe := range fieldErrs {
		all = multierr.Append(all, &fieldError{fe})
	}
	return apperrors.NewConfigurationError("invalid config", all)
}

type fieldError struct{ fe validator.FieldError }

func (e *fieldError) Error() string {
	if e.fe.Param() != "" {
		return e.fe.Namespace() + " failed " + e.fe.Tag() + "=" + e.fe.Param()
	}
	return e.fe.Namespace() + " failed " + e.fe.Tag()
}
