package api

import (
	"screening/internal/artifact"
	"screening/internal/features"
	"screening/internal/predict"
)

//go:generate mockgen -destination=scorer_mock_test.go -package=api screening/internal/api Scorer

// Scorer is the part of the predictor the handlers depend on.
type Scorer interface {
	PredictAnswers(a features.Answers) (predict.Prediction, error)
	PredictSlice(x []float64) (predict.Prediction, error)
	PredictBatch(vs []features.FeatureVector) ([]predict.Prediction, error)
	Artifact() *artifact.Artifact
}

var _ Scorer = (*predict.Predictor)(nil)
