package ml

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Forest is a bagged ensemble of regression trees
type Forest struct {
	trees    []*regressionTree
	features int
}

// FitForest trains count trees on bootstrap samples of (x, y). Tree i draws
// its sample from seed+i, so the result does not depend on scheduling.
// Fitting always runs to completion.
func FitForest(x [][]float64, y []float64, count int, seed int64) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("training set has %d rows and %d targets", len(x), len(y))
	}
	if count <= 0 {
		return nil, fmt.Errorf("tree count must be positive, got %d", count)
	}

	f := &Forest{trees: make([]*regressionTree, count), features: len(x[0])}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < count; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			sample := make([]int, len(x))
			for j := range sample {
				sample[j] = rng.Intn(len(x))
			}
			f.trees[i] = fitTree(x, y, sample, f.features, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// Predict averages the tree predictions for each row
func (f *Forest) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}

// Importances returns the mean impurity decrease per feature. Each tree's
// decreases are normalized first and the average is normalized again, so
// the result sums to 1 unless no tree ever split.
func (f *Forest) Importances() []float64 {
	out := make([]float64, f.features)
	for _, t := range f.trees {
		var total float64
		for _, v := range t.importances {
			total += v
		}
		if total <= 0 {
			continue
		}
		for j, v := range t.importances {
			out[j] += v / total
		}
	}

	var total float64
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out
}
