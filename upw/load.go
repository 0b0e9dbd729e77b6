package upw

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"mfpkg/model"
	"mfpkg/record"
)

// header is item 1. The fixed widths match what MODFLOW-NWT reads.
var header = []record.Field{
	{Name: "iupwcb", Kind: record.Int, Format: "%10d"},
	{Name: "hdry", Kind: record.Float, Format: "%10.3G"},
	{Name: "npupw", Kind: record.Int, Format: "%10d"},
	{Name: "iphdry", Kind: record.Int, Format: "%10d"},
}

// LoadFile opens path and loads it. OPEN/CLOSE arrays resolve relative to
// the directory of path.
func LoadFile(path string, host model.Host, units model.UnitTable) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &record.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	rd := record.NewReader(f).WithFS(record.DirFS(filepath.Dir(path)))
	return load(rd, host, units)
}

// Load reads a UPW package file. A nonzero cell-by-cell unit is remapped and
// recorded in units. The package is registered with host only when the
// whole file has been read.
func Load(r io.Reader, host model.Host, units model.UnitTable) (*Package, error) {
	return load(record.NewReader(r), host, units)
}

func load(rd *record.Reader, host model.Host, units model.UnitTable) (*Package, error) {
	log.WithField("package", Name).Debug("loading upw package file")
	line, err := rd.Header()
	if err != nil {
		return nil, err
	}
	h, err := record.ParseHeader(line, rd.LineNo(), header)
	if err != nil {
		return nil, err
	}

	opts := DefaultOptions()
	opts.Iupwcb = h.Ints["iupwcb"]
	opts.Hdry = h.Floats["hdry"]
	opts.Npupw = h.Ints["npupw"]
	opts.Iphdry = h.Ints["iphdry"]
	for _, x := range h.Extra {
		if strings.Contains(strings.ToUpper(x), noParCheck) {
			opts.NoParCheck = true
		}
	}
	if err := checkScalars(opts.Npupw); err != nil {
		return nil, err
	}

	var cbc int
	if opts.Iupwcb != 0 {
		cbc = opts.Iupwcb
		opts.Iupwcb = model.CellBudgetUnit
	}

	_, _, nlay, _ := host.Shape()
	for _, f := range []struct {
		name string
		dst  *[]int
	}{
		{"laytyp", &opts.Laytyp},
		{"layavg", &opts.Layavg},
	} {
		if *f.dst, err = readInts(rd, f.name, nlay); err != nil {
			return nil, err
		}
	}
	log.WithField("package", Name).Debug("loading chani")
	tokens, err := rd.Fields(nlay, "chani")
	if err != nil {
		return nil, err
	}
	if opts.Chani, err = record.ParseFloats(tokens, "chani"); err != nil {
		return nil, err
	}
	if opts.Layvka, err = readInts(rd, "layvka", nlay); err != nil {
		return nil, err
	}
	if opts.Laywet, err = readInts(rd, "laywet", nlay); err != nil {
		return nil, err
	}

	// checks LAYWET before any array is read
	p, err := build(host, opts)
	if err != nil {
		return nil, err
	}
	if err := record.Load(p.plan(), rd, Name); err != nil {
		return nil, err
	}

	if cbc != 0 {
		units.Register(cbc, model.CellBudgetUnit)
	}
	p.register()
	return p, nil
}

func readInts(rd *record.Reader, name string, n int) ([]int, error) {
	log.WithField("package", Name).Debug("loading ", name)
	tokens, err := rd.Fields(n, name)
	if err != nil {
		return nil, err
	}
	return record.ParseInts(tokens, name)
}
