// Package sim drives system models through sequences of control ticks
package sim

import (
	"fmt"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"github.com/aleianne/BFMC2020.Embedded.Platform/nlti"
	"gonum.org/v1/gonum/mat"
)

// Response feeds input samples u to s one tick at a time and returns the outputs.
func Response(s systemmodels.SISO, u []float64) []float64 {
	y := make([]float64, len(u))
	for i := range u {
		y[i] = s.Eval(u[i])
	}

	return y
}

// StepResponse returns the first n outputs of s driven by a unit step.
func StepResponse(s systemmodels.SISO, n int) []float64 {
	u := make([]float64, n)
	for i := range u {
		u[i] = 1.0
	}

	return Response(s, u)
}

// ImpulseResponse returns the first n outputs of s driven by a unit impulse.
func ImpulseResponse(s systemmodels.SISO, n int) []float64 {
	u := make([]float64, n)
	if n > 0 {
		u[0] = 1.0
	}

	return Response(s, u)
}

// RunLinear steps m with each control vector in u and returns the observed outputs
// stored in the rows of the returned matrix. If wn is not nil, its samples are added
// to the outputs to simulate measurement noise.
// It returns error if u is empty or if the model fails to step.
func RunLinear(m systemmodels.Linear, u []mat.Vector, wn systemmodels.Noise) (*mat.Dense, error) {
	if len(u) == 0 {
		return nil, fmt.Errorf("no control input supplied")
	}

	_, _, ny := m.Dims()
	out := mat.NewDense(len(u), ny, nil)

	for i := range u {
		y, err := m.Step(u[i])
		if err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}

		if err := storeRow(out, i, y, wn); err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
	}

	return out, nil
}

// RunNonlinear commits a tick of m for each control vector in u and returns the observed
// outputs stored in the rows of the returned matrix. If wn is not nil, its samples are
// added to the outputs to simulate measurement noise.
// It returns error if u is empty or if the model fails to update or observe its state.
func RunNonlinear(m nlti.Committer, u []mat.Vector, wn systemmodels.Noise) (*mat.Dense, error) {
	if len(u) == 0 {
		return nil, fmt.Errorf("no control input supplied")
	}

	rows := make([]mat.Vector, 0, len(u))
	for i := range u {
		y, err := nlti.Commit(m, u[i])
		if err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
		rows = append(rows, y)
	}

	out := mat.NewDense(len(rows), rows[0].Len(), nil)
	for i := range rows {
		if err := storeRow(out, i, rows[i], wn); err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
	}

	return out, nil
}

func storeRow(out *mat.Dense, i int, y mat.Vector, wn systemmodels.Noise) error {
	_, cols := out.Dims()
	if y.Len() != cols {
		return fmt.Errorf("%w: output length %d, expected %d", systemmodels.ErrInvalidDims, y.Len(), cols)
	}

	var n mat.Vector
	if wn != nil {
		n = wn.Sample()
		if n.Len() != cols {
			return fmt.Errorf("%w: noise length %d, expected %d", systemmodels.ErrInvalidDims, n.Len(), cols)
		}
	}

	for j := 0; j < cols; j++ {
		v := y.AtVec(j)
		if n != nil {
			v += n.AtVec(j)
		}
		out.Set(i, j, v)
	}

	return nil
}
