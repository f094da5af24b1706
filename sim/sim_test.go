package sim

import (
	"errors"
	"os"
	"testing"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"github.com/aleianne/BFMC2020.Embedded.Platform/lti/ss"
	"github.com/aleianne/BFMC2020.Embedded.Platform/lti/tf"
	"github.com/aleianne/BFMC2020.Embedded.Platform/nlti"
	"github.com/aleianne/BFMC2020.Embedded.Platform/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// integrator is a nonlinear model whose state integrates control input over time step
type integrator struct {
	*nlti.Base
}

func (m *integrator) Update(u mat.Vector) (mat.Vector, error) {
	if err := m.CheckControl(u); err != nil {
		return nil, err
	}

	x := &mat.VecDense{}
	x.AddScaledVec(m.States(), m.TimeStep(), u)

	return x, nil
}

func (m *integrator) CalculateOutput(u mat.Vector) (mat.Vector, error) {
	return m.States(), nil
}

var (
	A, B, C *mat.Dense
	ctl     []mat.Vector
)

func setup() {
	A = mat.NewDense(2, 2, []float64{1.0, 1.0, 0.0, 1.0})
	B = mat.NewDense(2, 1, []float64{0.5, 1.0})
	C = mat.NewDense(1, 2, []float64{1.0, 0.0})

	ctl = []mat.Vector{
		mat.NewVecDense(1, []float64{1.0}),
		mat.NewVecDense(1, []float64{1.0}),
		mat.NewVecDense(1, []float64{-2.0}),
	}
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestResponse(t *testing.T) {
	assert := assert.New(t)

	// y[k] = u[k] + u[k-1]
	f, err := tf.New([]float64{1.0, 1.0}, []float64{1.0})
	require.NoError(t, err)

	y := Response(f, []float64{1.0, 2.0, 3.0})
	assert.Equal([]float64{1.0, 3.0, 5.0}, y)
	assert.Empty(Response(f, nil))
}

func TestStepImpulseResponse(t *testing.T) {
	assert := assert.New(t)

	// y[k] = u[k] + 0.5*y[k-1]
	f, err := tf.New([]float64{1.0}, []float64{1.0, -0.5})
	require.NoError(t, err)

	assert.Equal([]float64{1.0, 1.5, 1.75}, StepResponse(f, 3))

	f.ClearMemory()
	assert.Equal([]float64{1.0, 0.5, 0.25}, ImpulseResponse(f, 3))
	assert.Empty(ImpulseResponse(f, 0))
}

func TestRunLinear(t *testing.T) {
	assert := assert.New(t)

	m, err := ss.New(A, B, C, nil, nil)
	require.NoError(t, err)

	out, err := RunLinear(m, ctl, nil)
	assert.NoError(err)

	rows, cols := out.Dims()
	assert.Equal(len(ctl), rows)
	assert.Equal(1, cols)
	// x: [0.5 1] -> [2 2] -> [3 0]
	assert.InDeltaSlice([]float64{0.5, 2.0, 3.0}, mat.Col(nil, 0, out), 1e-12)

	// zero noise leaves the outputs untouched
	m.Reset()
	wn, err := noise.NewZero(1)
	require.NoError(t, err)
	noisy, err := RunLinear(m, ctl, wn)
	assert.NoError(err)
	assert.True(mat.Equal(out, noisy))
}

func TestRunLinearInvalid(t *testing.T) {
	assert := assert.New(t)

	m, err := ss.New(A, B, C, nil, nil)
	require.NoError(t, err)

	out, err := RunLinear(m, nil, nil)
	assert.Nil(out)
	assert.Error(err)

	out, err = RunLinear(m, []mat.Vector{mat.NewVecDense(2, nil)}, nil)
	assert.Nil(out)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))

	wn, err := noise.NewZero(3)
	require.NoError(t, err)
	out, err = RunLinear(m, ctl, wn)
	assert.Nil(out)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))
}

func TestRunNonlinear(t *testing.T) {
	assert := assert.New(t)

	b, err := nlti.NewBase(1, 1, 1, 0.5)
	require.NoError(t, err)
	m := &integrator{Base: b}

	out, err := RunNonlinear(m, ctl, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0.5, 1.0, 0.0}, mat.Col(nil, 0, out), 1e-12)
	assert.InDelta(0.0, m.States().AtVec(0), 1e-12)

	out, err = RunNonlinear(m, nil, nil)
	assert.Nil(out)
	assert.Error(err)

	out, err = RunNonlinear(m, []mat.Vector{mat.NewVecDense(2, nil)}, nil)
	assert.Nil(out)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))
}
