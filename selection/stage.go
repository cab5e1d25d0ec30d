// Package selection implements a three-stage feature selection pipeline:
// recursive elimination with a regularized linear estimator, univariate
// F-test scoring, and mutual-information scoring. Stages narrow the feature
// set in sequence; the fitted result is an immutable, persistable model.
package selection

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Stage scores the columns of a labeled feature matrix and returns a support
// mask over those columns. A stage sees only the features that survived the
// stages before it.
type Stage interface {
	Name() string
	Fit(X *mat.Dense, y []float64) ([]bool, error)
}

// columns extracts the given column subset into a new matrix.
func columns(X *mat.Dense, idx []int) *mat.Dense {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, len(idx), nil)
	for j, col := range idx {
		for i := 0; i < rows; i++ {
			out.Set(i, j, X.At(i, col))
		}
	}
	return out
}

// topK returns a mask keeping the k highest-scoring columns. Ties keep the
// lower column index. k is clamped to the number of columns.
func topK(scores []float64, k int) []bool {
	if k > len(scores) {
		k = len(scores)
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	mask := make([]bool, len(scores))
	for _, i := range order[:k] {
		mask[i] = true
	}
	return mask
}

func column(X *mat.Dense, j int) []float64 {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = X.At(i, j)
	}
	return out
}
