package training

import (
	"math"
	"sort"
)

// Confusion holds the binary confusion matrix with label 1 as positive.
type Confusion struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// ClassReport is one row of a classification report.
type ClassReport struct {
	Label     int     `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

func accuracy(y, p []int) float64 {
	if len(y) == 0 {
		return 0
	}
	c := 0
	for i := range y {
		if y[i] == p[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

func confusion(y, p []int) Confusion {
	var c Confusion
	for i := range y {
		switch {
		case p[i] == 1 && y[i] == 1:
			c.TP++
		case p[i] == 1 && y[i] == 0:
			c.FP++
		case p[i] == 0 && y[i] == 0:
			c.TN++
		default:
			c.FN++
		}
	}
	return c
}

func prf1(tp, fp, fn int) (precision, recall, f1 float64) {
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return
}

// classificationReport returns per-class precision, recall, F1 and support.
func classificationReport(c Confusion) []ClassReport {
	p0, r0, f0 := prf1(c.TN, c.FN, c.FP)
	p1, r1, f1 := prf1(c.TP, c.FP, c.FN)
	return []ClassReport{
		{Label: 0, Precision: p0, Recall: r0, F1: f0, Support: c.TN + c.FP},
		{Label: 1, Precision: p1, Recall: r1, F1: f1, Support: c.TP + c.FN},
	}
}

func rocAUC(y []int, ps []float64) float64 {
	type pair struct {
		s float64
		y int
	}
	n := len(y)
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{ps[i], y[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })
	var pos, neg int
	for _, p := range pairs {
		if p.y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}
	tp, fp := 0, 0
	prevS := math.Inf(1)
	var auc float64
	prevTPR, prevFPR := 0.0, 0.0
	for i := 0; i < n; i++ {
		if pairs[i].s != prevS {
			tpr := float64(tp) / float64(pos)
			fpr := float64(fp) / float64(neg)
			auc += (fpr - prevFPR) * (tpr + prevTPR) / 2.0
			prevTPR, prevFPR = tpr, fpr
			prevS = pairs[i].s
		}
		if pairs[i].y == 1 {
			tp++
		} else {
			fp++
		}
	}
	tpr := float64(tp) / float64(pos)
	fpr := float64(fp) / float64(neg)
	auc += (fpr - prevFPR) * (tpr + prevTPR) / 2.0
	return auc
}

// prAUC integrates precision over recall, stepping once per distinct score so
// tied predictions count as a single threshold.
func prAUC(y []int, ps []float64) float64 {
	type pair struct {
		s float64
		y int
	}
	n := len(y)
	pairs := make([]pair, n)
	var pos int
	for i := 0; i < n; i++ {
		pairs[i] = pair{ps[i], y[i]}
		if y[i] == 1 {
			pos++
		}
	}
	if pos == 0 {
		return 0
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })
	var tp, fp int
	var prevRec, auc float64
	for i := 0; i < n; {
		j := i
		for ; j < n && pairs[j].s == pairs[i].s; j++ {
			if pairs[j].y == 1 {
				tp++
			} else {
				fp++
			}
		}
		prec := float64(tp) / float64(tp+fp)
		rec := float64(tp) / float64(pos)
		auc += (rec - prevRec) * prec
		prevRec = rec
		i = j
	}
	return auc
}
