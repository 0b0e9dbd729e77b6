package model

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const DefaultVersion = "MODFLOW-2005"

// Modflow is a minimal host: grid dimensions from the DIS package, the
// steady-state flag per stress period, confining beds per layer and the
// registered packages.
type Modflow struct {
	Nrow, Ncol, Nlay, Nper int

	Steady []bool // one per stress period
	Laycbd []int  // one per layer; nonzero marks a confining bed

	version  string
	packages []Package
}

// NewModflow returns a host with every period steady state and no
// confining beds.
func NewModflow(version string, nrow, ncol, nlay, nper int) (*Modflow, error) {
	if nrow < 1 || ncol < 1 || nlay < 1 || nper < 1 {
		return nil, fmt.Errorf("invalid grid dimensions nrow=%d ncol=%d nlay=%d nper=%d", nrow, ncol, nlay, nper)
	}
	if version == "" {
		version = DefaultVersion
	}
	m := &Modflow{
		Nrow:    nrow,
		Ncol:    ncol,
		Nlay:    nlay,
		Nper:    nper,
		Steady:  make([]bool, nper),
		Laycbd:  make([]int, nlay),
		version: version,
	}
	for i := range m.Steady {
		m.Steady[i] = true
	}
	return m, nil
}

// SetTransient marks every stress period transient (or steady).
func (m *Modflow) SetTransient(transient bool) {
	for i := range m.Steady {
		m.Steady[i] = !transient
	}
}

func (m *Modflow) Shape() (int, int, int, int) {
	return m.Nrow, m.Ncol, m.Nlay, m.Nper
}

func (m *Modflow) Transient() bool {
	for _, s := range m.Steady {
		if !s {
			return true
		}
	}
	return false
}

func (m *Modflow) ConfiningBed(k int) bool {
	return k >= 0 && k < len(m.Laycbd) && m.Laycbd[k] > 0
}

func (m *Modflow) Version() string { return m.version }

// AddPackage registers p, replacing any package of the same name.
func (m *Modflow) AddPackage(p Package) {
	for i, old := range m.packages {
		if old.Name() == p.Name() {
			log.WithFields(log.Fields{
				"package": p.Name(),
				"unit":    p.Unit(),
			}).Warn("replacing existing package")
			m.packages[i] = p
			return
		}
	}
	m.packages = append(m.packages, p)
}

// Package returns the registered package called name, or nil.
func (m *Modflow) Package(name string) Package {
	for _, p := range m.packages {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (m *Modflow) Packages() []Package { return m.packages }

// WritePackages writes every registered package to dir as <name>.<ext>.
func (m *Modflow) WritePackages(dir, name string) error {
	for _, p := range m.packages {
		path := filepath.Join(dir, name+"."+p.Extension())
		if err := writeFile(path, p); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, p Package) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return p.Write(f)
}
