// Package artifact persists a fitted model together with the schema it was trained on.
package artifact

import (
	"encoding/gob"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	apperrors "screening/internal/errors"
	"screening/internal/features"
	"screening/internal/models"
	"screening/internal/training"
)

// DefaultPath is where trainers write and predictors look when nothing is configured.
var DefaultPath = filepath.Join("models", "screening_model.gob")

// Artifact is the persisted, read-only form of a trained classifier.
type Artifact struct {
	Schema       features.Ref
	FeatureNames []string
	Algorithm    string
	Params       models.Params
	TrainedAt    time.Time
	Metrics      training.Metrics
	Importances  []training.FeatureImportance
	Model        models.Model
}

// FromResult packages a training result for schema.
func FromResult(schema *features.Schema, algo string, p models.Params, res *training.Result) *Artifact {
	return &Artifact{
		Schema:       schema.Ref(),
		FeatureNames: schema.FeatureNames(),
		Algorithm:    algo,
		Params:       p,
		TrainedAt:    time.Now().UTC(),
		Metrics:      res.Metrics,
		Importances:  res.Importances,
		Model:        res.Model,
	}
}

// Save writes a to path through a temporary file so readers never see a partial artifact.
func Save(path string, a *Artifact) error {
	if a == nil || a.Model == nil {
		return apperrors.NewInternalError("refusing to save an artifact without a model", nil)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewInternalError("create model directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return apperrors.NewInternalError("create temp artifact", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(a); err != nil {
		tmp.Close()
		return apperrors.NewInternalError("encode artifact", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewInternalError("close temp artifact", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewInternalError("move artifact into place", err)
	}
	return nil
}

// Load reads the artifact at path and checks it was trained on schema.
func Load(path string, schema *features.Schema) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewModelUnavailableError(path, nil)
		}
		return nil, apperrors.NewModelUnavailableError(path, err)
	}
	defer f.Close()

	var a Artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, apperrors.NewModelUnavailableError(path, err)
	}
	if a.Model == nil {
		return nil, apperrors.NewModelUnavailableError(path, errors.New("artifact carries no model"))
	}
	if schema != nil {
		if err := schema.Matches(a.Schema, a.FeatureNames); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
