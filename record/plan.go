package record

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Step is one record of a conditional array sequence. Included is decided
// when the plan is built, from scalars and flags already known.
type Step struct {
	Name     string
	Index    int
	Label    string
	Included bool

	Read  func(r *Reader) error
	Write func(w io.Writer) error
}

// Plan is the ordered record sequence of a package section.
type Plan []Step

// Included returns the steps that take part in reading and writing.
func (p Plan) Included() Plan {
	out := make(Plan, 0, len(p))
	for _, s := range p {
		if s.Included {
			out = append(out, s)
		}
	}
	return out
}

// Labels lists the labels of the included steps, in order.
func (p Plan) Labels() []string {
	var out []string
	for _, s := range p.Included() {
		out = append(out, s.Label)
	}
	return out
}

// Load executes the read side of every included step. The first failure
// ends the load.
func Load(p Plan, r *Reader, pkg string) error {
	for _, s := range p.Included() {
		log.WithFields(log.Fields{
			"package": pkg,
			"step":    s.Name,
			"index":   s.Index,
		}).Debug("loading ", s.Label)
		if err := s.Read(r); err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				return err
			}
			return &LoadError{Label: s.Label, Index: s.Index, Err: err}
		}
	}
	return nil
}

// Write executes the write side of every included step. Failures of w come
// back as *IOError.
func Write(p Plan, w io.Writer) error {
	for _, s := range p.Included() {
		if err := s.Write(w); err != nil {
			var ioe *IOError
			if errors.As(err, &ioe) {
				return err
			}
			return &IOError{Op: fmt.Sprintf("write %s (index %d)", s.Label, s.Index), Err: err}
		}
	}
	return nil
}
