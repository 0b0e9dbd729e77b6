// Package sub reads and writes the MODFLOW subsidence (SUB) package:
// no-delay and delay interbed systems, material zones and the optional
// subsidence output control block.
package sub

import (
	"bytes"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"mfpkg/array"
	"mfpkg/model"
	"mfpkg/record"
)

const (
	Name      = "SUB"
	Extension = "sub"

	// ids15 holds six format/unit pairs; ids16 rows hold a period and time
	// step range followed by 13 print/save flags.
	ids15Len = 12
	ids16Len = 17
	// ids16 columns that hold period and time step indices.
	ids16IndexCols = 4
	lastTimeStep   = 9999
)

// defaultZone is Kv, Sse and Ssv of a material zone.
var defaultZone = []float64{1.e-6, 6.e-6, 6.e-4}

// Package is the in-memory SUB package. Layer indices and the first four
// columns of Ids16 are zero-based.
type Package struct {
	Isubcb int
	Isuboc int
	Idsave int
	Idrest int
	Nndb   int
	Ndb    int
	Nmz    int
	Nn     int
	Ac1    float64
	Ac2    float64
	Itmin  int

	// no-delay interbeds, nil when Nndb == 0
	Ln  []int
	Hc  *array.Stack
	Sfe *array.Stack
	Sfv *array.Stack
	Com *array.Stack

	// delay interbeds, nil when Ndb == 0
	Ldn    []int
	Rnb    *array.Stack
	Dp     *mat.Dense // Nmz x 3
	Dstart *array.Stack
	Dhc    *array.Stack
	Dcom   *array.Stack
	Dz     *array.Stack
	Nz     *array.Stack

	// output control, nil when Isuboc == 0
	Ids15 []int
	Ids16 [][]int

	Heading string

	host model.Host
	unit int
}

// Options are the constructor arguments. Start from DefaultOptions.
type Options struct {
	Isubcb, Isuboc, Idsave, Idrest int
	Nndb, Ndb, Nmz, Nn             int
	Ac1, Ac2                       float64
	Itmin                          int

	Ln, Ldn []int // zero-based; nil or a single value is repeated

	Rnb, Hc, Sfe, Sfv, Com    array.Fill
	Dp                        *mat.Dense // nil repeats the default zone
	Dstart, Dhc, Dcom, Dz, Nz array.Fill

	Ids15 []int
	Ids16 [][]int // zero-based period/step columns

	Unit int
}

// DefaultOptions mirrors the simulator defaults.
func DefaultOptions() Options {
	return Options{
		Nndb:   1,
		Ndb:    1,
		Nmz:    1,
		Nn:     20,
		Ac1:    0.,
		Ac2:    0.2,
		Itmin:  5,
		Rnb:    array.Constant(1.),
		Hc:     array.Constant(100000.),
		Sfe:    array.Constant(1.e-4),
		Sfv:    array.Constant(1.e-3),
		Com:    array.Constant(0.),
		Dstart: array.Constant(1.),
		Dhc:    array.Constant(100000.),
		Dcom:   array.Constant(0.),
		Dz:     array.Constant(1.),
		Nz:     array.Constant(1.),
		Unit:   model.SubUnit,
	}
}

// New builds a SUB package from opts and registers it with host.
func New(host model.Host, opts Options) (*Package, error) {
	p, err := build(host, opts)
	if err != nil {
		return nil, err
	}
	if err := p.setOutput(opts.Ids15, opts.Ids16); err != nil {
		return nil, err
	}
	p.register()
	return p, nil
}

// build lays out scalars and arrays without output control or registration.
func build(host model.Host, opts Options) (*Package, error) {
	p := &Package{
		Isubcb: opts.Isubcb,
		Isuboc: opts.Isuboc,
		Idsave: opts.Idsave,
		Idrest: opts.Idrest,
		Nndb:   opts.Nndb,
		Ndb:    opts.Ndb,
		Nmz:    opts.Nmz,
		Nn:     opts.Nn,
		Ac1:    opts.Ac1,
		Ac2:    opts.Ac2,
		Itmin:  opts.Itmin,
		host:   host,
		unit:   opts.Unit,
	}
	if p.unit == 0 {
		p.unit = model.SubUnit
	}
	if err := p.checkCounts(); err != nil {
		return nil, err
	}
	nrow, ncol, nlay, _ := host.Shape()

	var err error
	if p.Nndb > 0 {
		if p.Ln, err = layers("ln", opts.Ln, p.Nndb, nlay); err != nil {
			return nil, err
		}
		if p.Hc, err = stack("hc", array.Real, p.Nndb, nrow, ncol, opts.Hc, 100000.); err != nil {
			return nil, err
		}
		if p.Sfe, err = stack("sfe", array.Real, p.Nndb, nrow, ncol, opts.Sfe, 1.e-4); err != nil {
			return nil, err
		}
		if p.Sfv, err = stack("sfv", array.Real, p.Nndb, nrow, ncol, opts.Sfv, 1.e-3); err != nil {
			return nil, err
		}
		if p.Com, err = stack("com", array.Real, p.Nndb, nrow, ncol, opts.Com, 0.); err != nil {
			return nil, err
		}
	}
	if p.Ndb > 0 {
		if p.Ldn, err = layers("ldn", opts.Ldn, p.Ndb, nlay); err != nil {
			return nil, err
		}
		if p.Rnb, err = stack("rnb", array.Real, p.Ndb, nrow, ncol, opts.Rnb, 1.); err != nil {
			return nil, err
		}
		if p.Dp, err = zones(opts.Dp, p.Nmz); err != nil {
			return nil, err
		}
		if p.Dstart, err = stack("dstart", array.Real, p.Ndb, nrow, ncol, opts.Dstart, 1.); err != nil {
			return nil, err
		}
		if p.Dhc, err = stack("dhc", array.Real, p.Ndb, nrow, ncol, opts.Dhc, 100000.); err != nil {
			return nil, err
		}
		if p.Dcom, err = stack("dcom", array.Real, p.Ndb, nrow, ncol, opts.Dcom, 0.); err != nil {
			return nil, err
		}
		if p.Dz, err = stack("dz", array.Real, p.Ndb, nrow, ncol, opts.Dz, 1.); err != nil {
			return nil, err
		}
		if p.Nz, err = stack("nz", array.Integer, p.Ndb, nrow, ncol, opts.Nz, 1.); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Package) checkCounts() error {
	counts := []struct {
		name string
		v    int
	}{{"nndb", p.Nndb}, {"ndb", p.Ndb}, {"nmz", p.Nmz}, {"isuboc", p.Isuboc}}
	for _, c := range counts {
		if c.v < 0 {
			return &record.ShapeError{Name: c.name, Detail: fmt.Sprintf("negative count %d", c.v)}
		}
	}
	if p.Ndb > 0 && p.Nmz < 1 {
		return &record.ShapeError{Name: "nmz", Detail: "delay interbeds need at least one material zone"}
	}
	return nil
}

// register applies the heading and hands the package to the host.
func (p *Package) register() {
	p.Heading = fmt.Sprintf("# Subsidence (SUB) package file for %s, generated by mfpkg.", p.host.Version())
	p.host.AddPackage(p)
	log.WithFields(log.Fields{
		"nndb":   p.Nndb,
		"ndb":    p.Ndb,
		"nmz":    p.Nmz,
		"nn":     p.Nn,
		"isuboc": p.Isuboc,
		"unit":   p.unit,
	}).Info("sub package registered")
}

func layers(name string, v []int, n, nlay int) ([]int, error) {
	out := make([]int, n)
	switch len(v) {
	case 0:
	case 1:
		for i := range out {
			out[i] = v[0]
		}
	case n:
		copy(out, v)
	default:
		return nil, record.ShapeMismatch(name, []int{n}, []int{len(v)})
	}
	if err := checkLayers(name, out, nlay); err != nil {
		return nil, err
	}
	return out, nil
}

func checkLayers(name string, v []int, nlay int) error {
	for _, k := range v {
		if k < 0 || k >= nlay {
			return &record.ShapeError{
				Name:   name,
				Detail: fmt.Sprintf("layer %d outside 1..%d", record.EncodeIndex(k), nlay),
			}
		}
	}
	return nil
}

func stack(name string, kind array.Kind, n, rows, cols int, fill array.Fill, def float64) (*array.Stack, error) {
	if fill == nil {
		fill = array.Constant(def)
	}
	return array.NewStack(name, kind, n, rows, cols, fill)
}

func zones(dp *mat.Dense, nmz int) (*mat.Dense, error) {
	if dp == nil {
		out := mat.NewDense(nmz, 3, nil)
		for k := 0; k < nmz; k++ {
			out.SetRow(k, defaultZone)
		}
		return out, nil
	}
	r, c := dp.Dims()
	if r != nmz || c != 3 {
		return nil, record.ShapeMismatch("dp", []int{nmz, 3}, []int{r, c})
	}
	return mat.DenseCopyOf(dp), nil
}

func (p *Package) Name() string      { return Name }
func (p *Package) Extension() string { return Extension }
func (p *Package) Unit() int         { return p.unit }

// OutputFiles lists the auxiliary files the package writes.
func (p *Package) OutputFiles() []model.OutputFile {
	var out []model.OutputFile
	if p.Isuboc > 0 {
		out = append(out, model.OutputFile{Extension: "bud", Name: "DATA(BINARY)", Unit: model.SubOutputUnit})
	}
	if p.Idsave > 0 {
		out = append(out, model.OutputFile{Extension: "rst", Name: "DATA(BINARY)", Unit: model.SubSaveUnit})
	}
	return out
}

// Summary returns min/max statistics of every array present.
func (p *Package) Summary() []array.Stats {
	var out []array.Stats
	for _, s := range []*array.Stack{p.Rnb, p.Hc, p.Sfe, p.Sfv, p.Com, p.Dstart, p.Dhc, p.Dcom, p.Dz, p.Nz} {
		if s != nil {
			out = append(out, s.Stats())
		}
	}
	return out
}

// Render returns the package file text.
func (p *Package) Render() (string, error) {
	var b bytes.Buffer
	if err := p.Write(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (p *Package) String() string { return "Subsidence (SUB) package" }
