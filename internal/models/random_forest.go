package models

import (
	"math"
)

type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	Trees              []*DecisionTree
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 100, MaxDepth: 10, MinSamples: 4, MaxThresholdsPerFe: 32, Seed: 42, Trees: []*DecisionTree{}}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

// Fit grows NEstimators trees on bootstrap samples. MaxFeatures <= 0 means
// sqrt(number of features) per split.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if rf.NEstimators <= 0 {
		rf.NEstimators = 100
	}
	nFeats := len(X[0])
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, math.Min(float64(nFeats), math.Sqrt(float64(nFeats)))))
	}
	trees, err := fitBootstrap(X, y, rf.NEstimators, rf.Seed, func() *DecisionTree {
		dt := NewDecisionTree()
		dt.MaxDepth = rf.MaxDepth
		dt.MinSamplesSplit = rf.MinSamples
		dt.MaxThresholdsPerFe = rf.MaxThresholdsPerFe
		dt.MaxFeatures = maxFeatures
		return dt
	})
	if err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) []int {
	return probaToLabels(rf.PredictProba(X))
}

func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	return averageProba(rf.Trees, X)
}

func (rf *RandomForest) FeatureImportances() []float64 {
	return averageImportances(rf.Trees)
}
