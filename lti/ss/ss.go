// Package ss implements linear, time-invariant, discrete-time state space models
package ss

import (
	"fmt"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"github.com/aleianne/BFMC2020.Embedded.Platform/matrix"
	"gonum.org/v1/gonum/mat"
)

// Model is a linear discrete-time system model
//
//	x[k+1] = A*x[k] + B*u[k]
//	y[k]   = C*x[k] + D*u[k]
//
// System matrices are fixed when the model is created; the state vector is the only
// mutable part of the model. Model is not safe for concurrent use.
type Model struct {
	// a is state transition matrix [nx x nx]
	a *mat.Dense
	// b is input matrix [nx x nu]
	b *mat.Dense
	// c is output matrix [ny x nx]
	c *mat.Dense
	// d is feedthrough matrix [ny x nu]
	d *mat.Dense
	// x is internal state
	x *mat.VecDense
	// y is output buffer returned by Step
	y *mat.VecDense
	// ax, bu, du are preallocated work vectors
	ax *mat.VecDense
	bu *mat.VecDense
	du *mat.VecDense
}

// New creates new state space model and returns it.
// D is optional: if nil, the model has no feedthrough i.e. D is a zero matrix.
// x0 is optional initial state: if nil, the model starts from zero state.
// It returns error if either of the following conditions is met:
//   - A, B or C are nil
//   - A is not square or the dimensions of B, C, D or x0 do not match A
//   - any of the supplied matrices or x0 contain NaN or Inf
func New(A, B, C, D mat.Matrix, x0 mat.Vector) (*Model, error) {
	if isNil(A) || isNil(B) || isNil(C) {
		return nil, fmt.Errorf("%w: A, B and C matrices must be defined", systemmodels.ErrInvalidDims)
	}

	nx, _ := A.Dims()
	_, nu := B.Dims()
	ny, _ := C.Dims()
	if nx <= 0 || nu <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: nx=%d, nu=%d, ny=%d", systemmodels.ErrInvalidDims, nx, nu, ny)
	}

	if err := matrix.CheckDims("A", A, nx, nx); err != nil {
		return nil, err
	}

	if err := matrix.CheckDims("B", B, nx, nu); err != nil {
		return nil, err
	}

	if err := matrix.CheckDims("C", C, ny, nx); err != nil {
		return nil, err
	}

	d := mat.NewDense(ny, nu, nil)
	if !isNil(D) {
		if err := matrix.CheckDims("D", D, ny, nu); err != nil {
			return nil, err
		}
		d.Copy(D)
	}

	x := mat.NewVecDense(nx, nil)
	if !isNilVec(x0) {
		if err := checkState(x0, nx); err != nil {
			return nil, err
		}
		x.CopyVec(x0)
	}

	return &Model{
		a:  mat.DenseCopyOf(A),
		b:  mat.DenseCopyOf(B),
		c:  mat.DenseCopyOf(C),
		d:  d,
		x:  x,
		y:  mat.NewVecDense(ny, nil),
		ax: mat.NewVecDense(nx, nil),
		bu: mat.NewVecDense(nx, nil),
		du: mat.NewVecDense(ny, nil),
	}, nil
}

// isNil returns true if m is nil or a nil *mat.Dense
func isNil(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)

	return ok && d == nil
}

// isNilVec returns true if v is nil or a nil *mat.VecDense
func isNilVec(v mat.Vector) bool {
	if v == nil {
		return true
	}
	vd, ok := v.(*mat.VecDense)

	return ok && vd == nil
}

func checkState(x mat.Vector, nx int) error {
	if err := matrix.CheckVec("state", x, nx); err != nil {
		return err
	}

	if !matrix.IsFinite(x) {
		return fmt.Errorf("%w: state vector", systemmodels.ErrNonFinite)
	}

	return nil
}

// UpdateState propagates the internal state to the next step given input u:
// x = A*x + B*u. The current state is overwritten.
// It returns error if u has invalid dimension.
func (m *Model) UpdateState(u mat.Vector) error {
	_, nu, _ := m.Dims()
	if err := matrix.CheckVec("input", u, nu); err != nil {
		return err
	}

	m.propagate(m.x, m.ax, m.bu, m.x, u)

	return nil
}

// Output returns system output y = C*x + D*u given the current state and input u.
// It does not modify the model. The returned vector is newly allocated.
// It returns error if u has invalid dimension.
func (m *Model) Output(u mat.Vector) (mat.Vector, error) {
	_, nu, ny := m.Dims()
	if err := matrix.CheckVec("input", u, nu); err != nil {
		return nil, err
	}

	y := mat.NewVecDense(ny, nil)
	m.observe(y, mat.NewVecDense(ny, nil), m.x, u)

	return y, nil
}

// Step runs one tick of the model: it first updates the internal state with input u
// and then returns the output observed from the updated state, i.e.
//
//	x[k+1] = A*x[k] + B*u[k]
//	y      = C*x[k+1] + D*u[k]
//
// The returned vector is owned by the model and is only valid until the next call to Step.
// It returns error if u has invalid dimension.
func (m *Model) Step(u mat.Vector) (mat.Vector, error) {
	if err := m.UpdateState(u); err != nil {
		return nil, err
	}

	m.observe(m.y, m.du, m.x, u)

	return m.y, nil
}

// Propagate returns the next state of the system given state x, input u and
// process noise wd. It does not modify the model. wd is ignored if nil.
// It returns error if either x, u or wd have invalid dimensions.
func (m *Model) Propagate(x, u, wd mat.Vector) (mat.Vector, error) {
	nx, nu, _ := m.Dims()
	if err := matrix.CheckVec("state", x, nx); err != nil {
		return nil, err
	}

	if err := matrix.CheckVec("input", u, nu); err != nil {
		return nil, err
	}

	out := mat.NewVecDense(nx, nil)
	m.propagate(out, mat.NewVecDense(nx, nil), mat.NewVecDense(nx, nil), x, u)

	if wd != nil {
		if err := matrix.CheckVec("state noise", wd, nx); err != nil {
			return nil, err
		}
		out.AddVec(out, wd)
	}

	return out, nil
}

// Observe returns system output given state x, input u and measurement noise wn.
// It does not modify the model. wn is ignored if nil.
// It returns error if either x, u or wn have invalid dimensions.
func (m *Model) Observe(x, u, wn mat.Vector) (mat.Vector, error) {
	nx, nu, ny := m.Dims()
	if err := matrix.CheckVec("state", x, nx); err != nil {
		return nil, err
	}

	if err := matrix.CheckVec("input", u, nu); err != nil {
		return nil, err
	}

	out := mat.NewVecDense(ny, nil)
	m.observe(out, mat.NewVecDense(ny, nil), x, u)

	if wn != nil {
		if err := matrix.CheckVec("output noise", wn, ny); err != nil {
			return nil, err
		}
		out.AddVec(out, wn)
	}

	return out, nil
}

// propagate stores A*x + B*u in dst using ax and bu as work space.
// dst may be x.
func (m *Model) propagate(dst, ax, bu *mat.VecDense, x, u mat.Vector) {
	ax.MulVec(m.a, x)
	bu.MulVec(m.b, u)
	dst.AddVec(ax, bu)
}

// observe stores C*x + D*u in dst using du as work space.
// u may be dst: D*u is computed before dst is overwritten.
func (m *Model) observe(dst, du *mat.VecDense, x, u mat.Vector) {
	du.MulVec(m.d, u)
	dst.MulVec(m.c, x)
	dst.AddVec(dst, du)
}

// State returns a copy of the internal state
func (m *Model) State() mat.Vector {
	x := &mat.VecDense{}
	x.CloneFromVec(m.x)

	return x
}

// SetState overrides the internal state with x.
// It returns error if x has invalid dimension or contains non-finite values.
func (m *Model) SetState(x mat.Vector) error {
	nx, _, _ := m.Dims()
	if err := checkState(x, nx); err != nil {
		return err
	}

	m.x.CopyVec(x)

	return nil
}

// Reset sets the internal state to zero
func (m *Model) Reset() {
	m.x.Zero()
}

// Dims returns internal state length (nx), input vector length (nu)
// and output vector length (ny).
func (m *Model) Dims() (nx, nu, ny int) {
	nx, nu = m.b.Dims()
	ny, _ = m.c.Dims()

	return nx, nu, ny
}

// SystemMatrix returns state transition matrix A
func (m *Model) SystemMatrix() mat.Matrix {
	return mat.DenseCopyOf(m.a)
}

// ControlMatrix returns input matrix B
func (m *Model) ControlMatrix() mat.Matrix {
	return mat.DenseCopyOf(m.b)
}

// OutputMatrix returns observation matrix C
func (m *Model) OutputMatrix() mat.Matrix {
	return mat.DenseCopyOf(m.c)
}

// FeedForwardMatrix returns feedthrough matrix D
func (m *Model) FeedForwardMatrix() mat.Matrix {
	return mat.DenseCopyOf(m.d)
}

// String implements the Stringer interface.
func (m *Model) String() string {
	return fmt.Sprintf("Model{\nA=%v\nB=%v\nC=%v\nD=%v\nx=%v\n}",
		mat.Formatted(m.a, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(m.b, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(m.c, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(m.d, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(m.x.T(), mat.Prefix("  "), mat.Squeeze()))
}
