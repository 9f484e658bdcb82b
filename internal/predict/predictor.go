// Package predict scores questionnaire answers with a persisted classifier.
package predict

import (
	"math"

	"screening/internal/artifact"
	"screening/internal/config"
	apperrors "screening/internal/errors"
	"screening/internal/features"
)

// Prediction is the outcome for one feature vector.
// Probabilities holds P(0) and P(1) and sums to 1.
type Prediction struct {
	Label         int        `json:"label"`
	Probabilities [2]float64 `json:"probabilities"`
	Confidence    float64    `json:"confidence"`
	Likelihood    string     `json:"likelihood"`
	Risk          string     `json:"risk"`
	Model         string     `json:"model"`
}

type Option func(*Predictor)

// WithCopy replaces the likelihood text and risk thresholds.
func WithCopy(c config.Copy) Option {
	return func(p *Predictor) {
		p.likelihood = c.Likelihood
		p.risk = c.Risk
	}
}

// Predictor is read-only after construction and safe for concurrent use.
type Predictor struct {
	art        *artifact.Artifact
	schema     *features.Schema
	likelihood config.LikelihoodCopy
	risk       config.RiskThresholds
}

// Open loads the artifact at path. A missing file is a model-unavailable error.
func Open(path string, schema *features.Schema, opts ...Option) (*Predictor, error) {
	a, err := artifact.Load(path, schema)
	if err != nil {
		return nil, err
	}
	return New(a, schema, opts...)
}

func New(a *artifact.Artifact, schema *features.Schema, opts ...Option) (*Predictor, error) {
	if a == nil || a.Model == nil {
		return nil, apperrors.NewModelUnavailableError("", nil)
	}
	if schema == nil {
		return nil, apperrors.NewConfigurationError("predictor needs a schema", nil)
	}
	if err := schema.Matches(a.Schema, a.FeatureNames); err != nil {
		return nil, err
	}
	def := config.Default().Copy
	p := &Predictor{art: a, schema: schema, likelihood: def.Likelihood, risk: def.Risk}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Predictor) Artifact() *artifact.Artifact { return p.art }
func (p *Predictor) Schema() *features.Schema     { return p.schema }

// Predict scores one vector. Age is clipped to the schema bounds first.
func (p *Predictor) Predict(v features.FeatureVector) (Prediction, error) {
	out, err := p.PredictBatch([]features.FeatureVector{v})
	if err != nil {
		return Prediction{}, err
	}
	return out[0], nil
}

func (p *Predictor) PredictAnswers(a features.Answers) (Prediction, error) {
	if p == nil {
		return Prediction{}, apperrors.NewModelUnavailableError("", nil)
	}
	v, err := p.schema.Vectorize(a)
	if err != nil {
		return Prediction{}, err
	}
	return p.Predict(v)
}

func (p *Predictor) PredictSlice(x []float64) (Prediction, error) {
	if p == nil {
		return Prediction{}, apperrors.NewModelUnavailableError("", nil)
	}
	v, err := p.schema.FromSlice(x)
	if err != nil {
		return Prediction{}, err
	}
	return p.Predict(v)
}

// PredictBatch scores vs in one model call; the first invalid vector fails the batch.
func (p *Predictor) PredictBatch(vs []features.FeatureVector) ([]Prediction, error) {
	if p == nil || p.art == nil || p.art.Model == nil {
		return nil, apperrors.NewModelUnavailableError("", nil)
	}
	X := make([][]float64, len(vs))
	for i, v := range vs {
		nv, err := p.schema.Normalize(v)
		if err != nil {
			return nil, err
		}
		X[i] = nv.Slice()
	}
	if len(X) == 0 {
		return []Prediction{}, nil
	}
	ps := p.art.Model.PredictProba(X)
	if len(ps) != len(X) {
		return nil, apperrors.NewInternalError("model returned a wrong number of probabilities", nil)
	}
	out := make([]Prediction, len(ps))
	for i, p1 := range ps {
		if math.IsNaN(p1) {
			return nil, apperrors.NewInternalError("model returned NaN", nil)
		}
		out[i] = p.decide(math.Min(1, math.Max(0, p1)))
	}
	return out, nil
}

func (p *Predictor) decide(p1 float64) Prediction {
	pr := Prediction{
		Probabilities: [2]float64{1 - p1, p1},
		Risk:          p.risk.Band(p1),
		Model:         p.art.Model.Name(),
	}
	if pr.Probabilities[1] > pr.Probabilities[0] {
		pr.Label = 1
		pr.Confidence = pr.Probabilities[1]
		pr.Likelihood = p.likelihood.Higher
	} else {
		pr.Confidence = pr.Probabilities[0]
		pr.Likelihood = p.likelihood.Lower
	}
	return pr
}
