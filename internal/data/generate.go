package data

import (
	"math/rand"
	"strconv"

	apperrors "screening/internal/errors"
	"screening/internal/features"
)

// Generator draws labeled samples from a schema's class-conditional tables.
type Generator struct {
	schema *features.Schema
}

func NewGenerator(schema *features.Schema) *Generator {
	return &Generator{schema: schema}
}

// Generate returns n samples. The same seed always yields the same dataset.
func (g *Generator) Generate(n int, seed int64) (*Dataset, error) {
	if n < 1 {
		return nil, apperrors.NewConfigurationError("sample count must be at least 1, got "+strconv.Itoa(n), nil)
	}
	if g.schema == nil {
		return nil, apperrors.NewConfigurationError("generator has no schema", nil)
	}
	if err := g.schema.ValidateTable(); err != nil {
		return nil, err
	}

	s := g.schema
	rng := rand.New(rand.NewSource(seed))
	ageSpan := s.AgeMax - s.AgeMin + 1
	ds := &Dataset{Schema: s, Samples: make([]LabeledSample, 0, n)}

	for i := 0; i < n; i++ {
		label := bernoulli(rng, s.PositiveRate)
		table := s.Negative
		if label == 1 {
			table = s.Positive
		}
		var v features.FeatureVector
		for j := 0; j < features.NumResponses; j++ {
			v[j] = float64(bernoulli(rng, table[j]))
		}
		v[features.AgeIndex] = float64(s.AgeMin + rng.Intn(ageSpan))
		v[features.GenderIndex] = float64(rng.Intn(2))
		ds.Samples = append(ds.Samples, LabeledSample{Features: v, Label: label})
	}
	return ds, nil
}

func bernoulli(rng *rand.Rand, p float64) int {
	if rng.Float64() < p {
		return 1
	}
	return 0
}
