package selection

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ridgeCoefficients solves (X'X + lambda*I) w = X'y. The ridge term keeps the
// normal equations well conditioned when surviving features are correlated.
func ridgeCoefficients(X *mat.Dense, y []float64, lambda float64) ([]float64, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.New("empty feature matrix")
	}
	if len(y) != rows {
		return nil, errors.New("label length does not match row count")
	}
	if lambda <= 0 {
		lambda = 1.0
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	for i := 0; i < cols; i++ {
		xtx.Set(i, i, xtx.At(i, i)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), mat.NewVecDense(rows, y))

	var w mat.VecDense
	if err := w.SolveVec(&xtx, &xty); err != nil {
		return nil, err
	}

	out := make([]float64, cols)
	for i := range out {
		out[i] = w.AtVec(i)
	}
	return out, nil
}

// importances scales coefficient magnitudes by column spread so features on
// different scales rank comparably.
func importances(X *mat.Dense, coef []float64) []float64 {
	out := make([]float64, len(coef))
	for j := range coef {
		sd := stat.StdDev(column(X, j), nil)
		if sd == 0 {
			sd = 1
		}
		value := coef[j] * sd
		if value < 0 {
			value = -value
		}
		out[j] = value
	}
	return out
}
