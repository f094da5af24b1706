// Package tf implements single-input single-output discrete transfer functions
// expressed in the unit-delay operator z^-1:
//
//	        num[0] + num[1]*z^-1 + ... + num[n-1]*z^-(n-1)
//	G(z) = ----------------------------------------------
//	        den[0] + den[1]*z^-1 + ... + den[m-1]*z^-(m-1)
//
// which leads to the recurrence
//
//	y[k] = (sum_i num[i]*u[k-i] - sum_{j>=1} den[j]*y[k-j]) / den[0]
//
// Both input and output histories are stored with index 0 holding the most
// recent sample, so num[i] always multiplies u[k-i] and den[j] multiplies y[k-j].
package tf

import (
	"fmt"
	"math"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"github.com/aleianne/BFMC2020.Embedded.Platform/matrix"
	"gonum.org/v1/gonum/floats"
)

// Epsilon is the smallest absolute value accepted as leading denominator coefficient
const Epsilon = 1e-12

// TF is a discrete transfer function
type TF struct {
	// num stores numerator coefficients
	num []float64
	// den stores denominator coefficients without the leading one
	den []float64
	// lead is the leading denominator coefficient
	lead float64
	// in stores the most recent inputs: in[i] = u[k-i]
	in []float64
	// out stores the most recent outputs: out[j] = y[k-j]
	out []float64
	// y is the last computed output
	y float64
}

// New creates new transfer function with numerator coefficients num and denominator coefficients den.
// Input and output histories are zero.
// It returns error if either of the following conditions is met:
//   - num or den are empty
//   - any of the coefficients is NaN or Inf
//   - the leading denominator coefficient den[0] is zero or near zero
func New(num, den []float64) (*TF, error) {
	if len(num) == 0 || len(den) == 0 {
		return nil, fmt.Errorf("%w: numerator %d, denominator %d", systemmodels.ErrInvalidDims, len(num), len(den))
	}

	if err := checkNum(num); err != nil {
		return nil, err
	}

	if err := checkDen(den); err != nil {
		return nil, err
	}

	t := &TF{
		num:  make([]float64, len(num)),
		den:  make([]float64, len(den)-1),
		lead: den[0],
		in:   make([]float64, len(num)),
		out:  make([]float64, len(den)-1),
	}
	copy(t.num, num)
	copy(t.den, den[1:])

	return t, nil
}

// NewDefault creates a unity gain transfer function with nNum numerator and nDen denominator coefficients.
// It returns error if either of the orders is not positive.
func NewDefault(nNum, nDen int) (*TF, error) {
	if nNum <= 0 || nDen <= 0 {
		return nil, fmt.Errorf("%w: numerator %d, denominator %d", systemmodels.ErrInvalidDims, nNum, nDen)
	}

	num := make([]float64, nNum)
	num[0] = 1.0
	den := make([]float64, nDen)
	den[0] = 1.0

	return New(num, den)
}

func checkNum(num []float64) error {
	if !matrix.IsFiniteSlice(num) {
		return fmt.Errorf("%w: numerator %v", systemmodels.ErrNonFinite, num)
	}

	return nil
}

func checkDen(den []float64) error {
	if !matrix.IsFiniteSlice(den) {
		return fmt.Errorf("%w: denominator %v", systemmodels.ErrNonFinite, den)
	}

	if math.Abs(den[0]) <= Epsilon {
		return fmt.Errorf("%w: %g", systemmodels.ErrZeroLeadCoef, den[0])
	}

	return nil
}

// Eval applies the transfer function to the next input sample u and returns the new output.
// Both histories are shifted by one sample and the new output is stored as the most recent one.
func (t *TF) Eval(u float64) float64 {
	shift(t.in, u)

	// out still holds y[k-1], y[k-2], ... here
	y := (floats.Dot(t.num, t.in) - floats.Dot(t.den, t.out)) / t.lead

	shift(t.out, y)
	t.y = y

	return y
}

// shift drops the oldest sample of mem and inserts v as the most recent one
func shift(mem []float64, v float64) {
	if len(mem) == 0 {
		return
	}
	copy(mem[1:], mem[:len(mem)-1])
	mem[0] = v
}

// SetNum replaces numerator coefficients. History is kept.
// It returns error if num does not match the numerator order or contains non-finite values.
func (t *TF) SetNum(num []float64) error {
	if len(num) != len(t.num) {
		return fmt.Errorf("%w: numerator %d, expected %d", systemmodels.ErrInvalidDims, len(num), len(t.num))
	}

	if err := checkNum(num); err != nil {
		return err
	}

	copy(t.num, num)

	return nil
}

// SetDen replaces denominator coefficients. History is kept.
// It returns error if den does not match the denominator order, contains non-finite values
// or its leading coefficient is zero. The coefficients are left unchanged on error.
func (t *TF) SetDen(den []float64) error {
	if len(den) != len(t.den)+1 {
		return fmt.Errorf("%w: denominator %d, expected %d", systemmodels.ErrInvalidDims, len(den), len(t.den)+1)
	}

	if err := checkDen(den); err != nil {
		return err
	}

	t.lead = den[0]
	copy(t.den, den[1:])

	return nil
}

// Num returns numerator coefficients
func (t *TF) Num() []float64 {
	num := make([]float64, len(t.num))
	copy(num, t.num)

	return num
}

// Den returns denominator coefficients without the leading coefficient
func (t *TF) Den() []float64 {
	den := make([]float64, len(t.den))
	copy(den, t.den)

	return den
}

// DenLead returns the leading denominator coefficient
func (t *TF) DenLead() float64 {
	return t.lead
}

// Orders returns the number of numerator and denominator coefficients
func (t *TF) Orders() (nNum, nDen int) {
	return len(t.num), len(t.den) + 1
}

// Output returns the last computed output
func (t *TF) Output() float64 {
	return t.y
}

// ClearMemory zeroes input and output histories
func (t *TF) ClearMemory() {
	for i := range t.in {
		t.in[i] = 0
	}
	for i := range t.out {
		t.out[i] = 0
	}
	t.y = 0
}

// DCGain returns the static gain of the transfer function i.e. the value
// its unit step response settles to if the system is stable.
// It returns error if the denominator coefficients sum to zero.
func (t *TF) DCGain() (float64, error) {
	sum := t.lead + floats.Sum(t.den)
	if math.Abs(sum) <= Epsilon {
		return 0, fmt.Errorf("no static gain: denominator coefficients sum to %g", sum)
	}

	return floats.Sum(t.num) / sum, nil
}

// String implements the Stringer interface.
func (t *TF) String() string {
	den := make([]float64, 0, len(t.den)+1)
	den = append(den, t.lead)
	den = append(den, t.den...)

	return fmt.Sprintf("TF{\nNum=%v\nDen=%v\n}", t.num, den)
}
