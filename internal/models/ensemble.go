package models

import "math/rand"

// fitBootstrap fits n trees, each on a bootstrap resample drawn from a source
// seeded with seed. Tree k gets its own derived seed so the ensemble is reproducible.
func fitBootstrap(X [][]float64, y []int, n int, seed int64, newTree func() *DecisionTree) ([]*DecisionTree, error) {
	if err := checkXY(X, y); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	rows := len(X)
	trees := make([]*DecisionTree, 0, n)
	Xb := make([][]float64, rows)
	yb := make([]int, rows)
	for k := 0; k < n; k++ {
		for i := 0; i < rows; i++ {
			j := rng.Intn(rows)
			Xb[i] = X[j]
			yb[i] = y[j]
		}
		dt := newTree()
		dt.Seed = rng.Int63()
		if err := dt.Fit(Xb, yb); err != nil {
			return nil, err
		}
		trees = append(trees, dt)
	}
	return trees, nil
}

func averageProba(trees []*DecisionTree, X [][]float64) []float64 {
	n := len(X)
	out := make([]float64, n)
	if len(trees) == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for _, dt := range trees {
		p := dt.PredictProba(X)
		for i := 0; i < n; i++ {
			out[i] += p[i]
		}
	}
	m := float64(len(trees))
	for i := 0; i < n; i++ {
		out[i] /= m
	}
	return out
}

func averageImportances(trees []*DecisionTree) []float64 {
	if len(trees) == 0 {
		return nil
	}
	out := make([]float64, len(trees[0].Importances))
	for _, dt := range trees {
		for j, v := range dt.FeatureImportances() {
			out[j] += v
		}
	}
	return normalize(out)
}
