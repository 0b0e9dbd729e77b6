package sub

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"mfpkg/model"
	"mfpkg/record"
)

// header is dataset 1.
var header = []record.Field{
	{Name: "isubcb", Kind: record.Int},
	{Name: "isuboc", Kind: record.Int},
	{Name: "nndb", Kind: record.Int},
	{Name: "ndb", Kind: record.Int},
	{Name: "nmz", Kind: record.Int},
	{Name: "nn", Kind: record.Int},
	{Name: "ac1", Kind: record.Float},
	{Name: "ac2", Kind: record.Float},
	{Name: "itmin", Kind: record.Int},
	{Name: "idsave", Kind: record.Int},
	{Name: "idrest", Kind: record.Int},
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

// Load reads a SUB package file. Unit numbers the file refers to are
// remapped and recorded in units. The package is registered with host only
// when the whole file has been read.
func Load(r io.Reader, host model.Host, units model.UnitTable) (*Package, error) {
	return load(record.NewReader(r), host, units)
}

func load(rd *record.Reader, host model.Host, units model.UnitTable) (*Package, error) {
	log.WithField("package", Name).Debug("loading sub package file")
	line, err := rd.Header()
	if err != nil {
		return nil, err
	}
	h, err := record.ParseHeader(line, rd.LineNo(), header)
	if err != nil {
		return nil, err
	}

	opts := DefaultOptions()
	opts.Isubcb = h.Ints["isubcb"]
	opts.Isuboc = h.Ints["isuboc"]
	opts.Nndb = h.Ints["nndb"]
	opts.Ndb = h.Ints["ndb"]
	opts.Nmz = h.Ints["nmz"]
	opts.Nn = h.Ints["nn"]
	opts.Ac1 = h.Floats["ac1"]
	opts.Ac2 = h.Floats["ac2"]
	opts.Itmin = h.Ints["itmin"]
	opts.Idsave = h.Ints["idsave"]
	opts.Idrest = h.Ints["idrest"]

	var moves []unitMove
	if opts.Isubcb > 0 {
		moves = append(moves, unitMove{opts.Isubcb, model.CellBudgetUnit})
		opts.Isubcb = model.CellBudgetUnit
	}
	if opts.Idsave > 0 {
		moves = append(moves, unitMove{opts.Idsave, model.SubSaveUnit})
		opts.Idsave = model.SubSaveUnit
	}
	if opts.Idrest > 0 {
		moves = append(moves, unitMove{opts.Idrest, model.SubRestartUnit})
		opts.Idrest = model.SubRestartUnit
	}

	// datasets 2 and 3
	if opts.Nndb > 0 {
		log.WithFields(log.Fields{"package": Name, "dataset": 2}).Debug("loading no-delay layers")
		if opts.Ln, err = rd.ReadIndices(opts.Nndb, "ln"); err != nil {
			return nil, err
		}
	}
	if opts.Ndb > 0 {
		log.WithFields(log.Fields{"package": Name, "dataset": 3}).Debug("loading delay layers")
		if opts.Ldn, err = rd.ReadIndices(opts.Ndb, "ldn"); err != nil {
			return nil, err
		}
	}

	p, err := build(host, opts)
	if err != nil {
		return nil, err
	}
	if err := record.Load(p.plan(), rd, Name); err != nil {
		return nil, err
	}

	var ids15 []int
	var ids16 [][]int
	if p.Isuboc > 0 {
		var out []unitMove
		if ids15, ids16, out, err = readOutput(rd, p.Isuboc); err != nil {
			return nil, err
		}
		moves = append(moves, out...)
	}
	if err := p.setOutput(ids15, ids16); err != nil {
		return nil, err
	}

	for _, m := range moves {
		units.Register(m.original, m.assigned)
	}
	p.register()
	return p, nil
}
