package model

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePackage struct {
	name, ext, body string
}

func (f fakePackage) Name() string      { return f.name }
func (f fakePackage) Extension() string { return f.ext }
func (f fakePackage) Unit() int         { return 1 }
func (f fakePackage) Write(w io.Writer) error {
	_, err := fmt.Fprint(w, f.body)
	return err
}

func TestNewModflow(t *testing.T) {
	m, err := NewModflow("", 2, 3, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, m.Version())
	nrow, ncol, nlay, nper := m.Shape()
	assert.Equal(t, []int{2, 3, 4, 5}, []int{nrow, ncol, nlay, nper})
	assert.False(t, m.Transient())

	m.Steady[3] = false
	assert.True(t, m.Transient())
	m.SetTransient(false)
	assert.False(t, m.Transient())

	m.Laycbd[1] = 1
	assert.True(t, m.ConfiningBed(1))
	assert.False(t, m.ConfiningBed(0))
	assert.False(t, m.ConfiningBed(10))

	_, err = NewModflow("", 0, 1, 1, 1)
	assert.Error(t, err)
}

func TestAddPackageReplaces(t *testing.T) {
	m, err := NewModflow("MODFLOW-NWT", 1, 1, 1, 1)
	require.NoError(t, err)
	m.AddPackage(fakePackage{name: "SUB", ext: "sub", body: "old"})
	m.AddPackage(fakePackage{name: "UPW", ext: "upw", body: "upw"})
	m.AddPackage(fakePackage{name: "SUB", ext: "sub", body: "new"})

	require.Len(t, m.Packages(), 2)
	var b bytes.Buffer
	require.NoError(t, m.Package("SUB").Write(&b))
	assert.Equal(t, "new", b.String())
	assert.Nil(t, m.Package("LPF"))
}

func TestWritePackages(t *testing.T) {
	m, err := NewModflow("", 1, 1, 1, 1)
	require.NoError(t, err)
	m.AddPackage(fakePackage{name: "UPW", ext: "upw", body: "text\n"})

	dir := t.TempDir()
	require.NoError(t, m.WritePackages(dir, "model"))
	data, err := os.ReadFile(filepath.Join(dir, "model.upw"))
	require.NoError(t, err)
	assert.Equal(t, "text\n", string(data))
}

func TestUnitTable(t *testing.T) {
	units := UnitTable{}
	units.Register(40, CellBudgetUnit)
	units.Register(0, CellBudgetUnit)
	units.Register(-1, CellBudgetUnit)
	units.Register(41, SubOutputUnit)

	assert.Equal(t, []int{40, 41}, units.Originals())
	assert.True(t, units.Excluded(40))
	assert.False(t, units.Excluded(53))
	assert.Equal(t, 42, units.Next(40))
	assert.Equal(t, 39, units.Next(39))

	var none UnitTable
	none.Register(40, 53)
	assert.Empty(t, none.Originals())
}
