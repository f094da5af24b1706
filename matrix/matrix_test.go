package matrix

import (
	"errors"
	"math"
	"testing"

	systemmodels "github.com/aleianne/BFMC2020.Embedded.Platform"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestIsFinite(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1.0, 2.0, 3.0, 4.0})
	assert.True(IsFinite(m))

	m.Set(1, 0, math.NaN())
	assert.False(IsFinite(m))

	m.Set(1, 0, math.Inf(-1))
	assert.False(IsFinite(m))

	assert.True(IsFiniteSlice([]float64{1.0, -2.5}))
	assert.True(IsFiniteSlice(nil))
	assert.False(IsFiniteSlice([]float64{1.0, math.Inf(1)}))
	assert.False(IsFiniteSlice([]float64{math.NaN()}))

	// should panic
	assert.Panics(func() { IsFinite(nil) })
}

func TestCheckDims(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(3, 2, nil)
	assert.NoError(CheckDims("A", m, 3, 2))

	err := CheckDims("A", m, 2, 3)
	assert.Error(err)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))

	err = CheckDims("A", nil, 2, 3)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))

	m.Set(0, 0, math.NaN())
	err = CheckDims("A", m, 3, 2)
	assert.True(errors.Is(err, systemmodels.ErrNonFinite))
}

func TestCheckVec(t *testing.T) {
	assert := assert.New(t)

	v := mat.NewVecDense(3, nil)
	assert.NoError(CheckVec("x", v, 3))

	err := CheckVec("x", v, 2)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))

	err = CheckVec("x", nil, 2)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))

	var nilVec *mat.VecDense
	err = CheckVec("x", nilVec, 2)
	assert.True(errors.Is(err, systemmodels.ErrInvalidDims))
}
