package models

import (
	"math"
	"math/rand"
	"sort"
)

type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	ProbaLeaf float64
}

type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	Root               *DTNode
	// Importances accumulates the weighted impurity decrease per feature.
	Importances []float64

	rng *rand.Rand
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 10, MinSamplesSplit: 4, MaxThresholdsPerFe: 32}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	dt.rng = rand.New(rand.NewSource(dt.Seed))
	dt.Importances = make([]float64, len(X[0]))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
	return probaToLabels(dt.PredictProba(X))
}

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.predictProbaOne(X[i])
	}
	return out
}

func (dt *DecisionTree) FeatureImportances() []float64 {
	return normalize(dt.Importances)
}

func (dt *DecisionTree) predictProbaOne(x []float64) float64 {
	n := dt.Root
	if n == nil {
		return 0.5
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return 0.5
		}
	}
	return n.ProbaLeaf
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, depth int) *DTNode {
	node := &DTNode{}
	p := classProba(y, idx)
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth || p == 0 || p == 1 {
		node.IsLeaf = true
		node.ProbaLeaf = p
		return node
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := math.MaxFloat64
	var leftIdxBest, rightIdxBest []int

	nFeats := len(X[0])
	for _, f := range pickFeatures(dt.rng, nFeats, dt.MaxFeatures) {
		for _, thr := range candidateThresholds(X, idx, f, dt.MaxThresholdsPerFe) {
			lIdx, rIdx := splitIdx(X, idx, f, thr)
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			imp := giniImpurity(y, lIdx, rIdx)
			if imp < bestImp {
				bestImp = imp
				bestFeature = f
				bestThr = thr
				leftIdxBest = lIdx
				rightIdxBest = rIdx
			}
		}
	}

	if bestFeature == -1 {
		node.IsLeaf = true
		node.ProbaLeaf = p
		return node
	}
	n := float64(len(idx))
	if gain := n * (gini(p) - bestImp); gain > 0 {
		dt.Importances[bestFeature] += gain
	}
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = dt.build(X, y, leftIdxBest, depth+1)
	node.Right = dt.build(X, y, rightIdxBest, depth+1)
	return node
}

func classProba(y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0.5
	}
	sum := 0
	for _, i := range idx {
		sum += y[i]
	}
	return float64(sum) / float64(len(idx))
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func gini(p float64) float64 { return 2 * p * (1 - p) }

// giniImpurity is the size-weighted impurity of a candidate split.
func giniImpurity(y []int, lIdx, rIdx []int) float64 {
	wl := float64(len(lIdx))
	wr := float64(len(rIdx))
	n := wl + wr
	return (wl/n)*gini(classProba(y, lIdx)) + (wr/n)*gini(classProba(y, rIdx))
}

// candidateThresholds returns midpoints between the distinct sorted values of
// feature f, thinned to at most maxC evenly spaced cuts.
func candidateThresholds(X [][]float64, idx []int, f int, maxC int) []float64 {
	values := make([]float64, len(idx))
	for j, i := range idx {
		values[j] = X[i][f]
	}
	sort.Float64s(values)
	distinct := values[:0]
	for i, v := range values {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) < 2 {
		return nil
	}
	cuts := len(distinct) - 1
	if maxC <= 0 || maxC > cuts {
		maxC = cuts
	}
	out := make([]float64, 0, maxC)
	for k := 0; k < maxC; k++ {
		i := k * cuts / maxC
		out = append(out, (distinct[i]+distinct[i+1])/2)
	}
	return out
}

func pickFeatures(rng *rand.Rand, nFeats int, maxFeats int) []int {
	idx := make([]int, nFeats)
	for i := 0; i < nFeats; i++ {
		idx[i] = i
	}
	if maxFeats <= 0 || maxFeats >= nFeats {
		return idx
	}
	rng.Shuffle(nFeats, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	out := make([]int, maxFeats)
	copy(out, idx[:maxFeats])
	return out
}
