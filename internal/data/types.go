package data

import "screening/internal/features"

// LabeledSample is one synthetic row. Label 1 is the positive (screen-positive) class.
type LabeledSample struct {
	Features features.FeatureVector `json:"features"`
	Label    int                    `json:"label"`
}

// Dataset is an ordered set of samples produced for a single schema.
type Dataset struct {
	Schema  *features.Schema
	Samples []LabeledSample
}

func (d *Dataset) Len() int { return len(d.Samples) }

// XY returns the design matrix and labels in the layout the models expect.
func (d *Dataset) XY() ([][]float64, []int) {
	X := make([][]float64, len(d.Samples))
	y := make([]int, len(d.Samples))
	for i, s := range d.Samples {
		X[i] = s.Features.Slice()
		y[i] = s.Label
	}
	return X, y
}

// ClassCounts returns the number of negative and positive samples.
func (d *Dataset) ClassCounts() (neg, pos int) {
	for _, s := range d.Samples {
		if s.Label == 1 {
			pos++
		} else {
			neg++
		}
	}
	return neg, pos
}

// Subset returns a dataset sharing the schema with the samples at idx, in order.
func (d *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{Schema: d.Schema, Samples: make([]LabeledSample, len(idx))}
	for i, j := range idx {
		out.Samples[i] = d.Samples[j]
	}
	return out
}
