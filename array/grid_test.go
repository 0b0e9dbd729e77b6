package array

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"mfpkg/record"
)

func load(t *testing.T, text string, rows, cols int, kind Kind) (*Grid, error) {
	t.Helper()
	return Load(record.NewReader(strings.NewReader(text)), "hk", "hk layer 1", rows, cols, kind)
}

func TestLoadConstant(t *testing.T) {
	g, err := load(t, "CONSTANT 2.5  #hk layer 1\n", 2, 3, Real)
	require.NoError(t, err)
	v, ok := g.Constant()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	r, c := g.Dims()
	assert.Equal(t, []int{2, 3}, []int{r, c})
}

func TestLoadInternal(t *testing.T) {
	g, err := load(t, "INTERNAL 2.0 (FREE) -1\n1 2 3\n4\n5 6\n", 2, 3, Real)
	require.NoError(t, err)
	want := mat.NewDense(2, 3, []float64{2, 4, 6, 8, 10, 12})
	assert.True(t, mat.Equal(want, g.Data))

	// zero multiplier leaves values as read
	g, err = load(t, "INTERNAL 0 (FREE) -1\n1 2 3 4 5 6\n", 2, 3, Real)
	require.NoError(t, err)
	assert.Equal(t, 6.0, g.At(1, 2))
}

func TestLoadOpenClose(t *testing.T) {
	fsys := fstest.MapFS{
		"hk1.ref": &fstest.MapFile{Data: []byte("1 2\n3 4\n")},
	}
	rd := record.NewReader(strings.NewReader("OPEN/CLOSE hk1.ref 10.0 (FREE) -1\n")).WithFS(fsys)
	g, err := Load(rd, "hk", "hk layer 1", 2, 2, Real)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{10, 20, 30, 40}), g.Data))

	rd = record.NewReader(strings.NewReader("OPEN/CLOSE missing.ref 1.0 (FREE) -1\n")).WithFS(fsys)
	_, err = Load(rd, "hk", "hk layer 1", 2, 2, Real)
	var ioe *record.IOError
	assert.True(t, errors.As(err, &ioe))
}

func TestLoadUnsupported(t *testing.T) {
	for _, text := range []string{
		"EXTERNAL 40 1.0 (FREE) -1\n",
		"        11         1.(10e12.4)               -1\n",
		"OPEN/CLOSE hk.ref 1.0 (FREE) -1\n", // no file system
	} {
		_, err := load(t, text, 1, 1, Real)
		var ue *record.UnsupportedError
		assert.True(t, errors.As(err, &ue), text)
	}
}

func TestLoadFormatErrors(t *testing.T) {
	_, err := load(t, "INTERNAL 1.0 (FREE) -1\n1 2\n", 2, 2, Real)
	var fe *record.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "hk layer 1", fe.Field)

	_, err = load(t, "CONSTANT 1.5\n", 1, 1, Integer)
	require.True(t, errors.As(err, &fe))

	_, err = load(t, "", 1, 1, Real)
	require.True(t, errors.As(err, &fe))
}

func TestRender(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, NewGrid("nz", Integer, 2, 2, 3).Render(&b, "nz layer 2"))
	assert.Equal(t, "CONSTANT 3  #nz layer 2\n", b.String())

	old := ValuesPerLine
	ValuesPerLine = 2
	defer func() { ValuesPerLine = old }()

	g := &Grid{Name: "hk", Kind: Real, Data: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6.5})}
	b.Reset()
	require.NoError(t, g.Render(&b, "hk layer 1"))
	want := "INTERNAL 1.0 (FREE) -1  #hk layer 1\n1.0 2.0\n3.0\n4.0 5.0\n6.5\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}

	back, err := load(t, b.String(), 2, 3, Real)
	require.NoError(t, err)
	assert.True(t, mat.Equal(g.Data, back.Data))
}
