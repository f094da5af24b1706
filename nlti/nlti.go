// Package nlti provides building blocks for nonlinear, time-invariant, discrete-time system models.
//
// Concrete models embed *Base, which stores state, output and time step, and implement
// the state transition (Update) and observation (CalculateOutput) themselves.
// Neither of the two is expected to store its result: the caller decides when
// to commit a computed state with SetStates, or uses Commit to do it in one go.
package nlti

import (
	"fmt"
	"math"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"github.com/aleianne/BFMC2020.Embedded.Platform/matrix"
	"gonum.org/v1/gonum/mat"
)

// Base stores the state, the last output and the time step of a nonlinear model
type Base struct {
	// x is system state
	x *mat.VecDense
	// y is system output
	y *mat.VecDense
	// nu is control vector length
	nu int
	// dt is time step
	dt float64
}

// NewBase creates new Base with zero state and output and returns it.
// It returns error if either of the dimensions is not positive or dt is not a positive finite number.
func NewBase(nx, nu, ny int, dt float64) (*Base, error) {
	if nx <= 0 || nu <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: nx=%d, nu=%d, ny=%d", systemmodels.ErrInvalidDims, nx, nu, ny)
	}

	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %v", dt)
	}

	return &Base{
		x:  mat.NewVecDense(nx, nil),
		y:  mat.NewVecDense(ny, nil),
		nu: nu,
		dt: dt,
	}, nil
}

// NewBaseWithStates creates new Base with initial state x0 and returns it.
// It returns error if x0 is nil or contains non-finite values, or if NewBase fails.
func NewBaseWithStates(x0 mat.Vector, nu, ny int, dt float64) (*Base, error) {
	if vd, ok := x0.(*mat.VecDense); x0 == nil || ok && vd == nil {
		return nil, fmt.Errorf("%w: initial state is nil", systemmodels.ErrInvalidDims)
	}

	b, err := NewBase(x0.Len(), nu, ny, dt)
	if err != nil {
		return nil, err
	}

	if err := b.SetStates(x0); err != nil {
		return nil, err
	}

	return b, nil
}

// States returns a copy of the current system state
func (b *Base) States() mat.Vector {
	x := &mat.VecDense{}
	x.CloneFromVec(b.x)

	return x
}

// Output returns a copy of the last stored system output
func (b *Base) Output() mat.Vector {
	y := &mat.VecDense{}
	y.CloneFromVec(b.y)

	return y
}

// TimeStep returns model time step
func (b *Base) TimeStep() float64 {
	return b.dt
}

// Dims returns state (nx), control (nu) and output (ny) vector lengths
func (b *Base) Dims() (nx, nu, ny int) {
	return b.x.Len(), b.nu, b.y.Len()
}

// SetStates overrides system state with x.
// It returns error if x has invalid dimension or contains non-finite values.
func (b *Base) SetStates(x mat.Vector) error {
	if err := matrix.CheckVec("state", x, b.x.Len()); err != nil {
		return err
	}

	if !matrix.IsFinite(x) {
		return fmt.Errorf("%w: state vector", systemmodels.ErrNonFinite)
	}

	b.x.CopyVec(x)

	return nil
}

// SetOutput overrides stored system output with y.
// It returns error if y has invalid dimension.
func (b *Base) SetOutput(y mat.Vector) error {
	if err := matrix.CheckVec("output", y, b.y.Len()); err != nil {
		return err
	}

	b.y.CopyVec(y)

	return nil
}

// CheckControl returns error if u is not a valid control vector for the model
func (b *Base) CheckControl(u mat.Vector) error {
	return matrix.CheckVec("control", u, b.nu)
}

// Committer is a nonlinear model whose output can be stored
type Committer interface {
	systemmodels.Nonlinear
	// SetOutput overrides stored system output
	SetOutput(mat.Vector) error
}

// Commit runs one tick of model m with control u: it computes the next state,
// stores it, computes the output from the stored state and stores it as well.
// It returns the new output or error if either step fails. If the output
// can not be calculated, the new state remains committed.
func Commit(m Committer, u mat.Vector) (mat.Vector, error) {
	x, err := m.Update(u)
	if err != nil {
		return nil, fmt.Errorf("state update failed: %w", err)
	}

	if err := m.SetStates(x); err != nil {
		return nil, fmt.Errorf("failed to store state: %w", err)
	}

	y, err := m.CalculateOutput(u)
	if err != nil {
		return nil, fmt.Errorf("output calculation failed: %w", err)
	}

	if err := m.SetOutput(y); err != nil {
		return nil, fmt.Errorf("failed to store output: %w", err)
	}

	return y, nil
}
