package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// noisyMatrix builds 200 rows where only column 2 drives the target.
func noisyMatrix(t *testing.T) (*mat.Dense, []float64) {
	t.Helper()
	rnd := rand.New(rand.NewSource(1))
	rows := 200
	X := mat.NewDense(rows, 5, nil)
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < 5; j++ {
			X.Set(i, j, rnd.NormFloat64())
		}
		y[i] = 10*X.At(i, 2) + rnd.NormFloat64()*0.01
	}
	return X, y
}

func TestFTestRanksCorrelatedColumnFirst(t *testing.T) {
	X, y := noisyMatrix(t)
	stage := &FTest{K: 1}

	mask, err := stage.Fit(X, y)
	require.NoError(t, err)
	require.Len(t, mask, 5)
	assert.True(t, mask[2], "expected the informative column to survive")
	for j, keep := range mask {
		if j != 2 {
			assert.False(t, keep, "column %d should have been dropped", j)
		}
	}
}

func TestMutualInfoRanksInformativeColumnFirst(t *testing.T) {
	X, y := noisyMatrix(t)
	stage := &MutualInfo{K: 1}

	mask, err := stage.Fit(X, y)
	require.NoError(t, err)
	assert.True(t, mask[2], "expected the informative column to survive")
}

func TestRFEHalvesByDefault(t *testing.T) {
	X, y := noisyMatrix(t)
	stage := &RFE{}

	mask, err := stage.Fit(X, y)
	require.NoError(t, err)

	kept := 0
	for _, keep := range mask {
		if keep {
			kept++
		}
	}
	assert.Equal(t, 2, kept)
	assert.True(t, mask[2], "expected the informative column to survive elimination")
}

func TestRFERejectsLabelMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, nil)
	_, err := (&RFE{}).Fit(X, []float64{1, 2})
	require.Error(t, err)
}

func TestTopKClampsAndBreaksTies(t *testing.T) {
	mask := topK([]float64{1, 3, 3, 2}, 10)
	assert.Equal(t, []bool{true, true, true, true}, mask)

	mask = topK([]float64{1, 3, 3, 2}, 2)
	assert.Equal(t, []bool{false, true, true, false}, mask)
}
