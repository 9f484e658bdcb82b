package training

import (
	"math"
	"math/rand"
	"strconv"

	"screening/internal/data"
	apperrors "screening/internal/errors"
)

// MinPerClass is the smallest class size that can be stratified into train and test.
const MinPerClass = 2

func checkClasses(ds *data.Dataset, need int) error {
	neg, pos := ds.ClassCounts()
	if neg < need || pos < need {
		return apperrors.NewInsufficientDataError(
			"each class needs at least "+strconv.Itoa(need)+" samples",
			map[string]string{"negative": strconv.Itoa(neg), "positive": strconv.Itoa(pos), "required": strconv.Itoa(need)},
		)
	}
	return nil
}

// StratifiedSplit shuffles each class with seed and moves testFraction of it
// (at least one, leaving at least one) to the test set.
func StratifiedSplit(ds *data.Dataset, testFraction float64, seed int64) (train, test *data.Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, apperrors.NewConfigurationError("test fraction must be in (0,1), got "+strconv.FormatFloat(testFraction, 'f', -1, 64), nil)
	}
	if err := checkClasses(ds, MinPerClass); err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	var trainIdx, testIdx []int
	for _, class := range classIndices(ds) {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		nTest := int(math.Ceil(testFraction * float64(len(class))))
		if nTest < 1 {
			nTest = 1
		}
		if nTest > len(class)-1 {
			nTest = len(class) - 1
		}
		testIdx = append(testIdx, class[:nTest]...)
		trainIdx = append(trainIdx, class[nTest:]...)
	}
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	return ds.Subset(trainIdx), ds.Subset(testIdx), nil
}

// classIndices returns the sample indices of the negative and positive class.
func classIndices(ds *data.Dataset) [2][]int {
	var out [2][]int
	for i, s := range ds.Samples {
		if s.Label == 1 {
			out[1] = append(out[1], i)
		} else {
			out[0] = append(out[0], i)
		}
	}
	return out
}

// StratifiedFolds assigns every sample to one of k folds, keeping the class ratio
// of each fold close to the dataset's.
func StratifiedFolds(ds *data.Dataset, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, apperrors.NewConfigurationError("cross-validation needs at least 2 folds, got "+strconv.Itoa(k), nil)
	}
	if err := checkClasses(ds, k); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	for _, class := range classIndices(ds) {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		for pos, i := range class {
			folds[pos%k] = append(folds[pos%k], i)
		}
	}
	return folds, nil
}
