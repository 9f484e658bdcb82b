package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "screening/internal/errors"
)

func TestLookup(t *testing.T) {
	s, err := Lookup("aq10")
	require.NoError(t, err)
	assert.Same(t, AQ10, s)

	_, err = Lookup("kids")
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))
	assert.Equal(t, []string{"aq10", "behavioral"}, Names())
}

func TestBuiltinTablesAreValid(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		require.NoError(t, err)
		assert.NoError(t, s.ValidateTable(), name)
		assert.Len(t, s.FeatureNames(), NumFeatures, name)
	}
}

func TestValidateTableReportsEveryViolation(t *testing.T) {
	s := *AQ10
	s.PositiveRate = 1.5
	s.Positive[0] = -0.1
	s.Negative[9] = 2

	err := s.ValidateTable()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConfiguration))
	assert.Contains(t, err.Error(), "positive rate")
	assert.Contains(t, err.Error(), "Q1")
	assert.Contains(t, err.Error(), "Q10")
}

func TestVectorizeOrderAndClipping(t *testing.T) {
	a := Answers{Responses: [NumResponses]int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0}, Age: 120, Gender: 1}
	v, err := AQ10.Vectorize(a)
	require.NoError(t, err)

	assert.Equal(t, FeatureVector{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 59, 1}, v)
	assert.Equal(t, 59, v.Age())
	assert.Equal(t, 1, v.Gender())
}

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name     string
		in       []float64
		want     FeatureVector
		mismatch bool
	}{
		{name: "all zero clips age to minimum", in: make([]float64, NumFeatures), want: FeatureVector{10: 3}},
		{name: "too short", in: []float64{1, 0, 1}, mismatch: true},
		{name: "too long", in: make([]float64, NumFeatures+1), mismatch: true},
		{name: "non binary answer", in: []float64{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 30, 0}, mismatch: true},
		{name: "non binary gender", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 30, 3}, mismatch: true},
		{name: "huge age clips to maximum", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1e19, 0}, want: FeatureVector{10: 59}},
		{name: "astronomic age clips to maximum", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1e300, 0}, want: FeatureVector{10: 59}},
		{name: "infinite age clips to maximum", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, math.Inf(1), 0}, want: FeatureVector{10: 59}},
		{name: "very negative age clips to minimum", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1e19, 0}, want: FeatureVector{10: 3}},
		{name: "NaN age", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, math.NaN(), 0}, mismatch: true},
		{name: "fractional age truncated", in: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 30.7, 0}, want: FeatureVector{10: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AQ10.FromSlice(tt.in)
			if tt.mismatch {
				assert.True(t, apperrors.Is(err, apperrors.CategorySchemaMismatch), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches(t *testing.T) {
	assert.NoError(t, AQ10.Matches(AQ10.Ref(), AQ10.FeatureNames()))

	err := AQ10.Matches(Behavioral.Ref(), Behavioral.FeatureNames())
	assert.True(t, apperrors.Is(err, apperrors.CategorySchemaMismatch))

	names := AQ10.FeatureNames()
	names[0], names[1] = names[1], names[0]
	err = AQ10.Matches(AQ10.Ref(), names)
	assert.True(t, apperrors.Is(err, apperrors.CategorySchemaMismatch))
	assert.Equal(t, "0", apperrors.Details(apperrors.ToAppError(err))["position"])

	err = AQ10.Matches(AQ10.Ref(), names[:11])
	assert.True(t, apperrors.Is(err, apperrors.CategorySchemaMismatch))
}
