package features

import (
	"fmt"
	"math"
	"strconv"

	apperrors "screening/internal/errors"
)

// FeatureVector is one row in schema order: NumResponses binary answers, age, gender.
type FeatureVector [NumFeatures]float64

func (v FeatureVector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

func (v FeatureVector) Age() int    { return int(v[AgeIndex]) }
func (v FeatureVector) Gender() int { return int(v[GenderIndex]) }

// Answers is the questionnaire-facing form of a FeatureVector.
// Gender is 1 for male and 0 for female.
type Answers struct {
	Responses [NumResponses]int `json:"responses"`
	Age       int               `json:"age"`
	Gender    int               `json:"gender"`
}

func (s *Schema) Vectorize(a Answers) (FeatureVector, error) {
	var v FeatureVector
	for j, r := range a.Responses {
		v[j] = float64(r)
	}
	v[AgeIndex] = float64(a.Age)
	v[GenderIndex] = float64(a.Gender)
	return s.Normalize(v)
}

// FromSlice validates a raw row against the schema before use.
func (s *Schema) FromSlice(x []float64) (FeatureVector, error) {
	var v FeatureVector
	if len(x) != NumFeatures {
		return v, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("expected %d features, got %d", NumFeatures, len(x)),
			map[string]string{"schema": s.Ref().String(), "expected": strconv.Itoa(NumFeatures), "got": strconv.Itoa(len(x))},
		)
	}
	copy(v[:], x)
	return s.Normalize(v)
}

// Normalize rejects non-binary answers or gender and clips age to the schema bounds.
func (s *Schema) Normalize(v FeatureVector) (FeatureVector, error) {
	for j := 0; j < NumResponses; j++ {
		if v[j] != 0 && v[j] != 1 {
			return v, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("%s must be 0 or 1", s.Questions[j].Name),
				map[string]string{"feature": s.Questions[j].Name, "value": strconv.FormatFloat(v[j], 'g', -1, 64)},
			)
		}
	}
	if g := v[GenderIndex]; g != 0 && g != 1 {
		return v, apperrors.NewSchemaMismatchError(
			s.GenderName+" must be 0 or 1",
			map[string]string{"feature": s.GenderName, "value": strconv.FormatFloat(g, 'g', -1, 64)},
		)
	}
	if math.IsNaN(v[AgeIndex]) {
		return v, apperrors.NewSchemaMismatchError(
			s.AgeName+" must be a number",
			map[string]string{"feature": s.AgeName, "value": "NaN"},
		)
	}
	age := math.Trunc(v[AgeIndex])
	if age < float64(s.AgeMin) {
		age = float64(s.AgeMin)
	}
	if age > float64(s.AgeMax) {
		age = float64(s.AgeMax)
	}
	v[AgeIndex] = age
	return v, nil
}
