package models

// Bagging averages full-feature trees grown on bootstrap samples.
type Bagging struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	Seed               int64
	Trees              []*DecisionTree
}

func NewBagging() *Bagging {
	return &Bagging{NEstimators: 30, MaxDepth: 10, MinSamples: 4, MaxThresholdsPerFe: 32, Seed: 42, Trees: []*DecisionTree{}}
}

func (bg *Bagging) Name() string { return "Bagging" }

func (bg *Bagging) Fit(X [][]float64, y []int) error {
	if bg.NEstimators <= 0 {
		bg.NEstimators = 30
	}
	trees, err := fitBootstrap(X, y, bg.NEstimators, bg.Seed, func() *DecisionTree {
		dt := NewDecisionTree()
		dt.MaxDepth = bg.MaxDepth
		dt.MinSamplesSplit = bg.MinSamples
		dt.MaxThresholdsPerFe = bg.MaxThresholdsPerFe
		dt.MaxFeatures = 0
		return dt
	})
	if err != nil {
		return err
	}
	bg.Trees = trees
	return nil
}

func (bg *Bagging) Predict(X [][]float64) []int {
	return probaToLabels(bg.PredictProba(X))
}

func (bg *Bagging) PredictProba(X [][]float64) []float64 {
	return averageProba(bg.Trees, X)
}

func (bg *Bagging) FeatureImportances() []float64 {
	return averageImportances(bg.Trees)
}
