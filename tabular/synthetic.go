package tabular

import (
	"errors"
	"math/rand"
)

// Synthetic generates a labeled regression dataset: standard-normal features,
// a sparse linear target over the first informative columns, plus gaussian
// noise. Used by the training CLI demo path and the test suite.
func Synthetic(schema Schema, rows, informative int, noise float64, seed int64) (*Dataset, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	if rows <= 0 {
		return nil, errors.New("rows must be positive")
	}
	features := schema.Width()
	if informative <= 0 || informative > features {
		informative = features
	}

	rnd := rand.New(rand.NewSource(seed))

	coef := make([]float64, informative)
	for i := range coef {
		coef[i] = (rnd.Float64()*2 - 1) * 100
	}

	out := make([][]float64, rows)
	for i := range out {
		row := make([]float64, features+1)
		var target float64
		for j := 0; j < features; j++ {
			row[j] = rnd.NormFloat64()
			if j < informative {
				target += row[j] * coef[j]
			}
		}
		row[features] = target + rnd.NormFloat64()*noise
		out[i] = row
	}

	return FromRows(schema, out)
}
