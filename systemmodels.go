package systemmodels

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidDims is returned when a vector or matrix does not have the dimensions a model expects
	ErrInvalidDims = errors.New("invalid dimensions")
	// ErrZeroLeadCoef is returned when the leading denominator coefficient of a transfer function is (near) zero
	ErrZeroLeadCoef = errors.New("zero leading denominator coefficient")
	// ErrNonFinite is returned when a coefficient or matrix element is NaN or Inf
	ErrNonFinite = errors.New("non-finite value")
)

// SISO is a single-input single-output discrete-time system
type SISO interface {
	// Eval feeds the next input sample to the system and returns its output
	Eval(float64) float64
	// Output returns the last computed output
	Output() float64
}

// Linear is a linear discrete-time system driven by static
// state, control, output and feedthrough matrices:
//
//	x[k+1] = A*x[k] + B*u[k]
//	y[k]   = C*x[k] + D*u[k]
type Linear interface {
	// UpdateState advances the internal state by one step
	UpdateState(mat.Vector) error
	// Output observes the system output given the current state and input
	Output(mat.Vector) (mat.Vector, error)
	// Step advances the internal state and observes the new state
	Step(mat.Vector) (mat.Vector, error)
	// State returns the internal state
	State() mat.Vector
	// SetState overrides the internal state
	SetState(mat.Vector) error
	// Dims returns state, input and output dimensions
	Dims() (nx, nu, ny int)
}

// Nonlinear is a nonlinear discrete-time system with a fixed time step.
//
// Update and CalculateOutput only compute values: neither of them is required
// to store the result. It is up to the caller (or the concrete model) to
// assign the returned state with SetStates, which allows inspecting a
// candidate next state before committing it.
type Nonlinear interface {
	// Update returns the next system state given control input
	Update(mat.Vector) (mat.Vector, error)
	// CalculateOutput returns the system observation given control input
	CalculateOutput(mat.Vector) (mat.Vector, error)
	// States returns the current system state
	States() mat.Vector
	// Output returns the last stored system observation
	Output() mat.Vector
	// SetStates overrides the current system state
	SetStates(mat.Vector) error
	// TimeStep returns the model time step
	TimeStep() float64
}

// Noise is a source of additive noise used when simulating systems
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset() error
}
