package selection

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"featuremill/tabular"
)

// FTest keeps the K features with the highest univariate F-statistic against
// the label, computed from the squared Pearson correlation. When K exceeds
// the surviving feature count it clamps to what is available.
type FTest struct {
	K int
}

func (f *FTest) Name() string {
	return "f_test"
}

func (f *FTest) Fit(X *mat.Dense, y []float64) ([]bool, error) {
	rows, cols := X.Dims()
	if len(y) != rows {
		return nil, &tabular.DimensionError{Got: len(y), Want: rows, Reason: "label length"}
	}
	if rows < 3 {
		return nil, &tabular.DimensionError{Got: rows, Want: 3, Reason: "too few rows for an F-test"}
	}
	k := f.K
	if k <= 0 {
		k = 30
	}

	scores := make([]float64, cols)
	dof := float64(rows - 2)
	for j := 0; j < cols; j++ {
		r := stat.Correlation(column(X, j), y, nil)
		if math.IsNaN(r) {
			scores[j] = 0
			continue
		}
		r2 := r * r
		if r2 >= 1 {
			scores[j] = math.Inf(1)
			continue
		}
		scores[j] = r2 / (1 - r2) * dof
	}

	return topK(scores, k), nil
}
