package selection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"featuremill/tabular"
)

// MutualInfo keeps the K features sharing the most information with the
// label, estimated from an equal-width joint histogram. When K exceeds the
// surviving feature count it clamps to what is available.
type MutualInfo struct {
	K    int
	Bins int
}

func (m *MutualInfo) Name() string {
	return "mutual_info"
}

func (m *MutualInfo) Fit(X *mat.Dense, y []float64) ([]bool, error) {
	rows, cols := X.Dims()
	if len(y) != rows {
		return nil, &tabular.DimensionError{Got: len(y), Want: rows, Reason: "label length"}
	}
	if rows < 2 {
		return nil, &tabular.DimensionError{Got: rows, Want: 2, Reason: "too few rows for a histogram"}
	}
	k := m.K
	if k <= 0 {
		k = 10
	}
	bins := m.Bins
	if bins <= 1 {
		bins = 16
	}

	yBinned := digitize(y, bins)
	scores := make([]float64, cols)
	for j := 0; j < cols; j++ {
		scores[j] = mutualInformation(digitize(column(X, j), bins), yBinned, bins)
	}

	return topK(scores, k), nil
}

// digitize maps values onto equal-width bin indices in [0, bins).
func digitize(values []float64, bins int) []int {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]int, len(values))
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range values {
		b := int(float64(bins) * (v - lo) / span)
		if b >= bins {
			b = bins - 1
		}
		out[i] = b
	}
	return out
}

func mutualInformation(a, b []int, bins int) float64 {
	n := float64(len(a))
	joint := make([]float64, bins*bins)
	pa := make([]float64, bins)
	pb := make([]float64, bins)
	for i := range a {
		joint[a[i]*bins+b[i]]++
		pa[a[i]]++
		pb[b[i]]++
	}

	var mi float64
	for i := 0; i < bins; i++ {
		for j := 0; j < bins; j++ {
			pxy := joint[i*bins+j] / n
			if pxy == 0 {
				continue
			}
			px := pa[i] / n
			py := pb[j] / n
			mi += pxy * math.Log(pxy/(px*py))
		}
	}
	return mi
}
