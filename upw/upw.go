// Package upw reads and writes the MODFLOW-NWT upstream weighting (UPW)
// layer property package.
package upw

import (
	"bytes"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mfpkg/array"
	"mfpkg/model"
	"mfpkg/record"
)

const (
	Name      = "UPW"
	Extension = "upw"

	heading    = "# UPW for MODFLOW-NWT, generated by mfpkg."
	noParCheck = "NOPARCHECK"
)

// Package is the in-memory UPW package. Every per-layer slice and stack has
// nlay entries.
type Package struct {
	Iupwcb     int
	Hdry       float64
	Npupw      int
	Iphdry     int
	NoParCheck bool

	Laytyp []int
	Layavg []int
	Chani  []float64
	Layvka []int
	Laywet []int

	Hk     *array.Stack
	Hani   *array.Stack
	Vka    *array.Stack
	Ss     *array.Stack
	Sy     *array.Stack
	Vkcb   *array.Stack
	Wetdry *array.Stack

	Heading string

	host model.Host
	unit int
}

// Options are the constructor arguments. Per-layer slices may be nil, a
// single value repeated for every layer, or one value per layer.
type Options struct {
	Iupwcb     int
	Hdry       float64
	Npupw      int
	Iphdry     int
	NoParCheck bool

	Laytyp, Layavg, Layvka, Laywet []int
	Chani                          []float64

	Hk, Hani, Vka, Ss, Sy, Vkcb, Wetdry array.Fill

	Unit int
}

func DefaultOptions() Options {
	return Options{
		Iupwcb: model.CellBudgetUnit,
		Hdry:   -1e30,
		Chani:  []float64{1.},
		Hk:     array.Constant(1.),
		Hani:   array.Constant(1.),
		Vka:    array.Constant(1.),
		Ss:     array.Constant(1e-5),
		Sy:     array.Constant(0.15),
		Vkcb:   array.Constant(0.),
		Wetdry: array.Constant(-0.01),
		Unit:   model.UpwUnit,
	}
}

// New builds a UPW package from opts and registers it with host.
func New(host model.Host, opts Options) (*Package, error) {
	p, err := build(host, opts)
	if err != nil {
		return nil, err
	}
	p.register()
	return p, nil
}

func build(host model.Host, opts Options) (*Package, error) {
	if err := checkScalars(opts.Npupw); err != nil {
		return nil, err
	}
	p := &Package{
		Iupwcb:     opts.Iupwcb,
		Hdry:       opts.Hdry,
		Npupw:      opts.Npupw,
		Iphdry:     opts.Iphdry,
		NoParCheck: opts.NoParCheck,
		host:       host,
		unit:       opts.Unit,
	}
	if p.unit == 0 {
		p.unit = model.UpwUnit
	}
	nrow, ncol, nlay, _ := host.Shape()

	var err error
	if p.Laytyp, err = intFlags("laytyp", opts.Laytyp, nlay); err != nil {
		return nil, err
	}
	if p.Layavg, err = intFlags("layavg", opts.Layavg, nlay); err != nil {
		return nil, err
	}
	if p.Chani, err = floatFlags("chani", opts.Chani, nlay, 1.); err != nil {
		return nil, err
	}
	if p.Layvka, err = intFlags("layvka", opts.Layvka, nlay); err != nil {
		return nil, err
	}
	if p.Laywet, err = intFlags("laywet", opts.Laywet, nlay); err != nil {
		return nil, err
	}
	if err := checkWetting(p.Laywet); err != nil {
		return nil, err
	}

	stacks := []struct {
		dst  **array.Stack
		name string
		fill array.Fill
		def  float64
	}{
		{&p.Hk, "hk", opts.Hk, 1.},
		{&p.Hani, "hani", opts.Hani, 1.},
		{&p.Vka, "vka", opts.Vka, 1.},
		{&p.Ss, "ss", opts.Ss, 1e-5},
		{&p.Sy, "sy", opts.Sy, 0.15},
		{&p.Vkcb, "vkcb", opts.Vkcb, 0.},
		{&p.Wetdry, "wetdry", opts.Wetdry, -0.01},
	}
	for _, s := range stacks {
		fill := s.fill
		if fill == nil {
			fill = array.Constant(s.def)
		}
		if *s.dst, err = array.NewStack(s.name, array.Real, nlay, nrow, ncol, fill); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func checkScalars(npupw int) error {
	if npupw > 0 {
		return &record.UnsupportedError{Package: Name, Reason: fmt.Sprintf("%d parameters declared, parameters are not supported", npupw)}
	}
	return nil
}

// checkWetting rejects rewetting, which the solver handles itself.
func checkWetting(laywet []int) error {
	for k, v := range laywet {
		if v != 0 {
			return &record.UnsupportedError{Package: Name, Reason: fmt.Sprintf("LAYWET must be 0, layer %d has %d", k+1, v)}
		}
	}
	return nil
}

func (p *Package) register() {
	p.Heading = heading
	p.host.AddPackage(p)
	log.WithFields(log.Fields{
		"nlay":       len(p.Laytyp),
		"iupwcb":     p.Iupwcb,
		"transient":  p.host.Transient(),
		"noparcheck": p.NoParCheck,
		"unit":       p.unit,
	}).Info("upw package registered")
}

func intFlags(name string, v []int, nlay int) ([]int, error) {
	out := make([]int, nlay)
	switch len(v) {
	case 0:
	case 1:
		for i := range out {
			out[i] = v[0]
		}
	case nlay:
		copy(out, v)
	default:
		return nil, record.ShapeMismatch(name, []int{nlay}, []int{len(v)})
	}
	return out, nil
}

func floatFlags(name string, v []float64, nlay int, def float64) ([]float64, error) {
	out := make([]float64, nlay)
	switch len(v) {
	case 0, 1:
		x := def
		if len(v) == 1 {
			x = v[0]
		}
		for i := range out {
			out[i] = x
		}
	case nlay:
		copy(out, v)
	default:
		return nil, record.ShapeMismatch(name, []int{nlay}, []int{len(v)})
	}
	return out, nil
}

func (p *Package) Name() string      { return Name }
func (p *Package) Extension() string { return Extension }
func (p *Package) Unit() int         { return p.unit }

// Summary returns min/max statistics of the arrays written for this model.
func (p *Package) Summary() []array.Stats {
	names := make(map[string]bool)
	for _, s := range p.plan().Included() {
		names[s.Name] = true
	}
	var out []array.Stats
	for _, s := range []*array.Stack{p.Hk, p.Hani, p.Vka, p.Ss, p.Sy, p.Vkcb, p.Wetdry} {
		if s != nil && names[s.Name] {
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

func (p *Package) String() string { return "Upstream weighting (UPW) package" }
