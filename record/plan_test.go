package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRoundTrip(t *testing.T) {
	idx := []int{0, 3, 7}
	assert.Equal(t, []int{1, 4, 8}, EncodeIndices(idx))
	assert.Equal(t, idx, DecodeIndices(EncodeIndices(idx)))

	rd := NewReader(strings.NewReader("1 4\n8\n"))
	got, err := rd.ReadIndices(3, "ln")
	require.NoError(t, err)
	assert.Equal(t, idx, got)
}

// valueStep reads or writes a single token into *v.
func valueStep(name string, k int, included bool, v *string) Step {
	return Step{
		Name:     name,
		Index:    k,
		Label:    fmt.Sprintf("%s %d", name, k+1),
		Included: included,
		Read: func(r *Reader) error {
			tokens, err := r.Fields(1, name)
			if err != nil {
				return err
			}
			*v = tokens[0]
			return nil
		},
		Write: func(w io.Writer) error {
			_, err := fmt.Fprintln(w, *v)
			return err
		},
	}
}

func TestPlanSkipsExcludedSteps(t *testing.T) {
	var a, b, c string
	p := Plan{
		valueStep("a", 0, true, &a),
		valueStep("b", 0, false, &b),
		valueStep("c", 1, true, &c),
	}
	assert.Equal(t, []string{"a 1", "c 2"}, p.Labels())

	require.NoError(t, Load(p, NewReader(strings.NewReader("x\ny\n")), "test"))
	assert.Equal(t, "x", a)
	assert.Empty(t, b)
	assert.Equal(t, "y", c)

	var buf bytes.Buffer
	require.NoError(t, Write(p, &buf))
	assert.Equal(t, "x\ny\n", buf.String())
}

func TestPlanLoadError(t *testing.T) {
	var a, c string
	p := Plan{valueStep("a", 0, true, &a), valueStep("c", 4, true, &c)}
	err := Load(p, NewReader(strings.NewReader("x\n")), "test")

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "c 5", le.Label)
	assert.Equal(t, 4, le.Index)

	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, io.ErrShortWrite }

func TestPlanWriteError(t *testing.T) {
	a := "x"
	p := Plan{valueStep("a", 2, true, &a)}
	err := Write(p, brokenWriter{})

	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "write a 3 (index 2)", ioe.Op)
	assert.True(t, errors.Is(err, io.ErrShortWrite))
}
