package training

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"screening/internal/data"
	"screening/internal/models"
)

type CurvePoint struct {
	Size     int     `json:"size"`
	TrainAcc float64 `json:"train_acc"`
	TestAcc  float64 `json:"test_acc"`
	TrainF1  float64 `json:"train_f1"`
	TestF1   float64 `json:"test_f1"`
}

// LearningCurve fits one model per size on the first size rows of train and
// scores it on both that prefix and test.
func (t *Trainer) LearningCurve(ctx context.Context, train, test *data.Dataset, sizes []int) ([]CurvePoint, error) {
	points := make([]CurvePoint, len(sizes))
	Xtest, ytest := test.XY()
	g, ctx := errgroup.WithContext(ctx)
	for k, s := range sizes {
		k, s := k, s
		if s > train.Len() {
			s = train.Len()
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx := make([]int, s)
			for i := range idx {
				idx[i] = i
			}
			subX, subY := train.Subset(idx).XY()
			mdl, err := models.New(t.opts.Algorithm, t.opts.Params)
			if err != nil {
				return err
			}
			if err := mdl.Fit(subX, subY); err != nil {
				return fmt.Errorf("fit curve point %d: %w", s, err)
			}
			pTrain := mdl.Predict(subX)
			pTest := mdl.Predict(Xtest)
			ctr := confusion(subY, pTrain)
			cte := confusion(ytest, pTest)
			_, _, f1Train := prf1(ctr.TP, ctr.FP, ctr.FN)
			_, _, f1Test := prf1(cte.TP, cte.FP, cte.FN)
			points[k] = CurvePoint{
				Size:     s,
				TrainAcc: accuracy(subY, pTrain),
				TestAcc:  accuracy(ytest, pTest),
				TrainF1:  f1Train,
				TestF1:   f1Test,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	t.logger.Debug("learning curve computed")
	return points, nil
}

// CurveSizes returns strictly increasing training sizes from min to totalTrain,
// log-spaced when useLog is set.
func CurveSizes(totalTrain, points, min int, useLog bool) []int {
	if totalTrain <= 0 {
		return nil
	}
	if points <= 1 {
		points = 2
	}
	if min < 10 {
		min = 10
	}
	if min > totalTrain {
		min = int(math.Max(1, float64(totalTrain)/2))
	}
	sizes := make([]int, 0, points)
	if useLog {
		ratio := math.Pow(float64(totalTrain)/float64(min), 1.0/float64(points-1))
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)*math.Pow(ratio, float64(i)))))
		}
	} else {
		step := float64(totalTrain-min) / float64(points-1)
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)+float64(i)*step)))
		}
	}
	cleaned := make([]int, 0, len(sizes))
	last := 0
	for _, s := range sizes {
		if s <= last {
			s = last + 1
		}
		if s > totalTrain {
			s = totalTrain
		}
		if s != last {
			cleaned = append(cleaned, s)
			last = s
		}
	}
	cleaned[len(cleaned)-1] = totalTrain
	return cleaned
}

func WriteCurveCSV(path string, points []CurvePoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"size", "train_acc", "test_acc", "train_f1", "test_f1"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			strconv.Itoa(p.Size),
			fmt.Sprintf("%.6f", p.TrainAcc),
			fmt.Sprintf("%.6f", p.TestAcc),
			fmt.Sprintf("%.6f", p.TrainF1),
			fmt.Sprintf("%.6f", p.TestF1),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
