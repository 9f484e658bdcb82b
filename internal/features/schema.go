package features

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/multierr"

	apperrors "screening/internal/errors"
)

const (
	NumResponses = 10
	NumFeatures  = NumResponses + 2
	AgeIndex     = NumResponses
	GenderIndex  = NumResponses + 1
)

// Question is one yes/no item of a questionnaire.
type Question struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Ref identifies a schema and its version inside a persisted model.
type Ref struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

func (r Ref) String() string { return r.Name + "/v" + strconv.Itoa(r.Version) }

// Schema fixes the feature order shared by generation, training and inference,
// together with the class-conditional tables used to synthesize data for it.
type Schema struct {
	Name         string
	Version      int
	Questions    [NumResponses]Question
	AgeName      string
	GenderName   string
	AgeMin       int
	AgeMax       int
	PositiveRate float64
	// Positive[j] and Negative[j] are P(response j = 1) given the class.
	Positive [NumResponses]float64
	Negative [NumResponses]float64
}

func (s *Schema) Ref() Ref { return Ref{Name: s.Name, Version: s.Version} }

func (s *Schema) FeatureNames() []string {
	names := make([]string, 0, NumFeatures)
	for _, q := range s.Questions {
		names = append(names, q.Name)
	}
	return append(names, s.AgeName, s.GenderName)
}

// Matches returns a schema mismatch error unless ref and names describe s exactly.
func (s *Schema) Matches(ref Ref, names []string) error {
	details := map[string]string{"expected": s.Ref().String(), "got": ref.String()}
	if ref != s.Ref() {
		return apperrors.NewSchemaMismatchError("model was trained on a different schema", details)
	}
	want := s.FeatureNames()
	if len(names) != len(want) {
		details["expected_features"] = strconv.Itoa(len(want))
		details["got_features"] = strconv.Itoa(len(names))
		return apperrors.NewSchemaMismatchError("feature count differs from schema", details)
	}
	for i := range want {
		if names[i] != want[i] {
			details["position"] = strconv.Itoa(i)
			details["expected_feature"] = want[i]
			details["got_feature"] = names[i]
			return apperrors.NewSchemaMismatchError("feature order differs from schema", details)
		}
	}
	return nil
}

// ValidateTable checks every generation parameter and reports all violations at once.
func (s *Schema) ValidateTable() error {
	var err error
	if s.PositiveRate <= 0 || s.PositiveRate >= 1 {
		err = multierr.Append(err, fmt.Errorf("positive rate %.3f outside (0,1)", s.PositiveRate))
	}
	if s.AgeMin < 0 || s.AgeMax < s.AgeMin {
		err = multierr.Append(err, fmt.Errorf("age bounds [%d,%d] invalid", s.AgeMin, s.AgeMax))
	}
	for j := 0; j < NumResponses; j++ {
		if p := s.Positive[j]; p < 0 || p > 1 {
			err = multierr.Append(err, fmt.Errorf("%s: positive-class probability %.3f outside [0,1]", s.Questions[j].Name, p))
		}
		if p := s.Negative[j]; p < 0 || p > 1 {
			err = multierr.Append(err, fmt.Errorf("%s: negative-class probability %.3f outside [0,1]", s.Questions[j].Name, p))
		}
	}
	if err != nil {
		return apperrors.NewConfigurationError("invalid generation table for schema "+s.Name, err)
	}
	return nil
}

var registry = map[string]*Schema{
	AQ10.Name:       AQ10,
	Behavioral.Name: Behavioral,
}

// Lookup returns a built-in schema by name.
func Lookup(name string) (*Schema, error) {
	s, ok := registry[name]
	if !ok {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("unknown schema %q (known: %v)", name, Names()), nil)
	}
	return s, nil
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
