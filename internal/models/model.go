package models

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "screening/internal/errors"
)

// Model is a binary classifier. PredictProba returns P(label = 1) per row.
type Model interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
	Name() string
}

// Importancer is implemented by models that can rank their input features.
// The returned slice is aligned with the feature order and sums to 1.
type Importancer interface {
	FeatureImportances() []float64
}

// Params holds the hyper-parameters shared by the tree models.
type Params struct {
	Estimators      int     `json:"estimators" yaml:"estimators" toml:"estimators" validate:"min=1"`
	MaxDepth        int     `json:"max_depth" yaml:"max_depth" toml:"max_depth" validate:"min=1"`
	MinSamplesSplit int     `json:"min_samples_split" yaml:"min_samples_split" toml:"min_samples_split" validate:"min=2"`
	MaxFeatures     int     `json:"max_features" yaml:"max_features" toml:"max_features" validate:"min=0,max=12"`
	MaxThresholds   int     `json:"max_thresholds" yaml:"max_thresholds" toml:"max_thresholds" validate:"min=1"`
	LearningRate    float64 `json:"learning_rate" yaml:"learning_rate" toml:"learning_rate" validate:"gt=0,lte=1"`
	Seed            int64   `json:"seed" yaml:"seed" toml:"seed"`
}

func DefaultParams() Params {
	return Params{Estimators: 100, MaxDepth: 10, MinSamplesSplit: 4, MaxThresholds: 32, LearningRate: 0.1, Seed: 42}
}

const (
	AlgoRandomForest     = "rf"
	AlgoDecisionTree     = "dt"
	AlgoBagging          = "bagging"
	AlgoGradientBoosting = "gb"
)

func Algorithms() []string {
	return []string{AlgoRandomForest, AlgoDecisionTree, AlgoBagging, AlgoGradientBoosting}
}

// New builds an unfitted model by algorithm name.
func New(algo string, p Params) (Model, error) {
	switch strings.ToLower(algo) {
	case AlgoRandomForest, "":
		rf := NewRandomForest()
		rf.NEstimators = p.Estimators
		rf.MaxDepth = p.MaxDepth
		rf.MinSamples = p.MinSamplesSplit
		rf.MaxFeatures = p.MaxFeatures
		rf.MaxThresholdsPerFe = p.MaxThresholds
		rf.Seed = p.Seed
		return rf, nil
	case AlgoBagging:
		bg := NewBagging()
		bg.NEstimators = p.Estimators
		bg.MaxDepth = p.MaxDepth
		bg.MinSamples = p.MinSamplesSplit
		bg.MaxThresholdsPerFe = p.MaxThresholds
		bg.Seed = p.Seed
		return bg, nil
	case AlgoGradientBoosting:
		gb := NewGradientBoosting()
		gb.NEstimators = p.Estimators
		gb.LearningRate = p.LearningRate
		gb.MaxThresholdsPerFe = p.MaxThresholds
		return gb, nil
	case AlgoDecisionTree:
		dt := NewDecisionTree()
		dt.MaxDepth = p.MaxDepth
		dt.MinSamplesSplit = p.MinSamplesSplit
		dt.MaxThresholdsPerFe = p.MaxThresholds
		dt.MaxFeatures = p.MaxFeatures
		dt.Seed = p.Seed
		return dt, nil
	default:
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("unknown algorithm %q (known: %v)", algo, Algorithms()), nil)
	}
}

func init() {
	gob.Register(&DecisionTree{})
	gob.Register(&RandomForest{})
	gob.Register(&Bagging{})
	gob.Register(&GradientBoosting{})
}

var errEmpty = errors.New("models: empty training set")

func checkXY(X [][]float64, y []int) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return errEmpty
	}
	if len(X) != len(y) {
		return fmt.Errorf("models: %d rows but %d labels", len(X), len(y))
	}
	return nil
}

// probaToLabels maps P(1) to a label; ties go to the negative class.
func probaToLabels(ps []float64) []int {
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] > 0.5 {
			out[i] = 1
		}
	}
	return out
}

func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	if sum == 0 || math.IsNaN(sum) {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}
