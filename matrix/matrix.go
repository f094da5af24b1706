package matrix

import (
	"fmt"
	"math"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"gonum.org/v1/gonum/mat"
)

// IsFinite returns true if m contains neither NaN nor Inf values.
// It panics if m is nil.
func IsFinite(m mat.Matrix) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}

	return true
}

// IsFiniteSlice returns true if s contains neither NaN nor Inf values.
func IsFiniteSlice(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// CheckDims returns error if m is nil, its dimensions are not [rows x cols] or it contains non-finite values.
// name is used to identify the matrix in the returned error.
func CheckDims(name string, m mat.Matrix, rows, cols int) error {
	if m == nil {
		return fmt.Errorf("%w: %s matrix is nil", systemmodels.ErrInvalidDims, name)
	}

	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%w: %s matrix [%d x %d], expected [%d x %d]", systemmodels.ErrInvalidDims, name, r, c, rows, cols)
	}

	if !IsFinite(m) {
		return fmt.Errorf("%w: %s matrix", systemmodels.ErrNonFinite, name)
	}

	return nil
}

// CheckVec returns error if v is nil or its length is not n.
func CheckVec(name string, v mat.Vector, n int) error {
	if vd, ok := v.(*mat.VecDense); v == nil || ok && vd == nil {
		return fmt.Errorf("%w: %s vector is nil", systemmodels.ErrInvalidDims, name)
	}

	if v.Len() != n {
		return fmt.Errorf("%w: %s vector length %d, expected %d", systemmodels.ErrInvalidDims, name, v.Len(), n)
	}

	return nil
}
