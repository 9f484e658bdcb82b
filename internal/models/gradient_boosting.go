package models

import (
	"math"
	"sort"
)

// Stump is a single split with one value per side.
type Stump struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

// GradientBoosting fits depth-one stumps to the log-loss gradient.
type GradientBoosting struct {
	NEstimators        int
	LearningRate       float64
	MinSamples         int
	MaxThresholdsPerFe int
	Init               float64
	NFeatures          int
	Trees              []Stump
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 50, LearningRate: 0.1, MaxThresholdsPerFe: 32}
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if gb.NEstimators <= 0 {
		gb.NEstimators = 50
	}
	n := len(X)
	nFeats := len(X[0])
	gb.NFeatures = nFeats
	gb.Trees = gb.Trees[:0]

	pos := 0
	for i := 0; i < n; i++ {
		if y[i] == 1 {
			pos++
		}
	}
	base := float64(pos) / float64(n)
	base = math.Min(math.Max(base, 1e-3), 1-1e-3)
	gb.Init = math.Log(base / (1.0 - base))
	F := make([]float64, n)
	for i := range F {
		F[i] = gb.Init
	}

	cands := make([][]float64, nFeats)
	for j := 0; j < nFeats; j++ {
		cands[j] = gbCandidateThresholds(X, j, gb.MaxThresholdsPerFe)
	}

	r := make([]float64, n)
	for m := 0; m < gb.NEstimators; m++ {
		for i := 0; i < n; i++ {
			r[i] = float64(y[i]) - sigmoid(F[i])
		}

		best := Stump{Feature: -1}
		bestSSE := math.MaxFloat64
		for j := 0; j < nFeats; j++ {
			for _, thr := range cands[j] {
				leftSum, leftCount := 0.0, 0.0
				rightSum, rightCount := 0.0, 0.0
				for i := 0; i < n; i++ {
					if X[i][j] <= thr {
						leftSum += r[i]
						leftCount++
					} else {
						rightSum += r[i]
						rightCount++
					}
				}
				if leftCount == 0 || rightCount == 0 {
					continue
				}
				if int(leftCount) < gb.MinSamples || int(rightCount) < gb.MinSamples {
					continue
				}
				leftAvg := leftSum / leftCount
				rightAvg := rightSum / rightCount
				// SSE around the two means, via sum of squares minus the explained part.
				sse := -(leftSum*leftAvg + rightSum*rightAvg)
				if sse < bestSSE {
					bestSSE = sse
					best = Stump{Feature: j, Threshold: thr, LeftVal: leftAvg, RightVal: rightAvg}
				}
			}
		}
		if best.Feature == -1 {
			break
		}
		gb.Trees = append(gb.Trees, best)
		for i := 0; i < n; i++ {
			F[i] += gb.LearningRate * best.value(X[i])
		}
	}
	return nil
}

func (s Stump) value(x []float64) float64 {
	if x[s.Feature] > s.Threshold {
		return s.RightVal
	}
	return s.LeftVal
}

func (gb *GradientBoosting) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Init
		for _, t := range gb.Trees {
			f += gb.LearningRate * t.value(X[i])
		}
		out[i] = sigmoid(f)
	}
	return out
}

func (gb *GradientBoosting) Predict(X [][]float64) []int {
	return probaToLabels(gb.PredictProba(X))
}

// FeatureImportances weights each stump's feature by the size of its step.
func (gb *GradientBoosting) FeatureImportances() []float64 {
	out := make([]float64, gb.NFeatures)
	for _, t := range gb.Trees {
		out[t.Feature] += math.Abs(t.RightVal - t.LeftVal)
	}
	return normalize(out)
}

func gbCandidateThresholds(X [][]float64, j int, nCand int) []float64 {
	if nCand <= 0 {
		nCand = 16
	}
	n := len(X)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = X[i][j]
	}
	sort.Float64s(vals)
	out := make([]float64, 0, nCand)
	for k := 1; k < nCand; k++ {
		idx := int(math.Round(float64(k) / float64(nCand) * float64(n-1)))
		if idx <= 0 || idx >= n {
			continue
		}
		thr := vals[idx]
		if len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	if len(out) == 0 {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vals[i]
		}
		out = append(out, sum/float64(n))
	}
	return out
}
