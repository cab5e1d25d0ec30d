package selection

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"featuremill/tabular"
)

// RFE recursively eliminates the weakest features as ranked by a regularized
// linear estimator, dropping a fraction of the survivors each round until the
// target count is reached.
type RFE struct {
	// Target is the surviving feature count. Zero means half the input width.
	Target int
	// Step is the fraction of survivors removed per round. Zero means 0.5.
	Step float64
	// Lambda is the ridge regularization strength. Zero means 1.0.
	Lambda float64
}

func (r *RFE) Name() string {
	return "rfe"
}

func (r *RFE) Fit(X *mat.Dense, y []float64) ([]bool, error) {
	rows, cols := X.Dims()
	if len(y) != rows {
		return nil, &tabular.DimensionError{Got: len(y), Want: rows, Reason: "label length"}
	}
	if rows < 2 {
		return nil, &tabular.DimensionError{Got: rows, Want: 2, Reason: "too few rows for elimination"}
	}

	target := r.Target
	if target <= 0 {
		target = cols / 2
	}
	if target < 1 {
		target = 1
	}
	if target > cols {
		target = cols
	}
	step := r.Step
	if step <= 0 || step >= 1 {
		step = 0.5
	}

	surviving := make([]int, cols)
	for i := range surviving {
		surviving[i] = i
	}

	for len(surviving) > target {
		sub := columns(X, surviving)
		coef, err := ridgeCoefficients(sub, y, r.Lambda)
		if err != nil {
			return nil, err
		}
		ranks := importances(sub, coef)

		order := make([]int, len(surviving))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return ranks[order[a]] < ranks[order[b]]
		})

		remove := int(float64(len(surviving)) * step)
		if remove < 1 {
			remove = 1
		}
		if len(surviving)-remove < target {
			remove = len(surviving) - target
		}

		drop := make(map[int]struct{}, remove)
		for _, i := range order[:remove] {
			drop[i] = struct{}{}
		}
		next := surviving[:0:0]
		for i, col := range surviving {
			if _, ok := drop[i]; !ok {
				next = append(next, col)
			}
		}
		surviving = next
	}

	mask := make([]bool, cols)
	for _, col := range surviving {
		mask[col] = true
	}
	return mask, nil
}
