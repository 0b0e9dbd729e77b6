package array

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"mfpkg/record"
)

func TestNewStack(t *testing.T) {
	s, err := NewStack("hc", Real, 3, 2, 2, Constant(7))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 2}, s.Shape())
	assert.NoError(t, s.Check(3, 2, 2))

	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	s, err = NewStack("hc", Real, 2, 2, 2, Layers(m))
	require.NoError(t, err)
	m.Set(0, 0, 100)
	assert.Equal(t, 1.0, s.Layer(1).At(0, 0), "layers are copies")

	empty, err := NewStack("hc", Real, 0, 2, 2, Constant(1))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestNewStackShapeErrors(t *testing.T) {
	var se *record.ShapeError

	_, err := NewStack("hc", Real, 3, 2, 2, Layers(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil)))
	assert.True(t, errors.As(err, &se))

	_, err = NewStack("hc", Real, 1, 2, 2, Layers(mat.NewDense(3, 2, nil)))
	assert.True(t, errors.As(err, &se))

	s, err := NewStack("hc", Real, 2, 2, 2, Constant(1))
	require.NoError(t, err)
	assert.True(t, errors.As(s.Check(3, 2, 2), &se))
	assert.True(t, errors.As(s.Check(2, 2, 3), &se))
}

func TestStackStep(t *testing.T) {
	s, err := NewStack("dz", Real, 2, 1, 2, Constant(1))
	require.NoError(t, err)

	p := record.Plan{s.Step(0, "dz layer 1", true), s.Step(1, "dz layer 3", true)}
	rd := record.NewReader(strings.NewReader("CONSTANT 4.0\nINTERNAL 1.0 (FREE) -1\n1 2\n"))
	require.NoError(t, record.Load(p, rd, "test"))
	assert.Equal(t, 4.0, s.Layer(0).At(0, 1))
	assert.Equal(t, 2.0, s.Layer(1).At(0, 1))

	var b bytes.Buffer
	require.NoError(t, record.Write(p, &b))
	assert.Equal(t, "CONSTANT 4.0  #dz layer 1\nINTERNAL 1.0 (FREE) -1  #dz layer 3\n1.0 2.0\n", b.String())

	st := s.Stats()
	assert.Equal(t, Stats{Name: "dz", Layers: 2, Min: 1, Max: 4}, st)
}
