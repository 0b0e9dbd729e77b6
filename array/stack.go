package array

import (
	"io"
	"math"

	"gonum.org/v1/gonum/mat"

	"mfpkg/record"
)

// Stack is an ordered set of grids sharing a name, one per governing index
// (interbed system or model layer).
type Stack struct {
	Name   string
	Kind   Kind
	Layers []*Grid
}

// Fill supplies the layers of a stack at construction.
type Fill interface {
	layers(name string, kind Kind, n, rows, cols int) ([]*Grid, error)
}

type constantFill float64

// Constant fills every cell of every layer with v.
func Constant(v float64) Fill { return constantFill(v) }

func (c constantFill) layers(name string, kind Kind, n, rows, cols int) ([]*Grid, error) {
	out := make([]*Grid, n)
	for k := range out {
		out[k] = NewGrid(name, kind, rows, cols, float64(c))
	}
	return out, nil
}

type layerFill []*mat.Dense

// Layers fills the stack layer by layer. A single matrix is repeated for
// every layer; otherwise one matrix per layer is required.
func Layers(m ...*mat.Dense) Fill { return layerFill(m) }

func (l layerFill) layers(name string, kind Kind, n, rows, cols int) ([]*Grid, error) {
	if len(l) != n && len(l) != 1 {
		return nil, record.ShapeMismatch(name, []int{n, rows, cols}, []int{len(l), rows, cols})
	}
	out := make([]*Grid, n)
	for k := range out {
		src := l[0]
		if len(l) == n {
			src = l[k]
		}
		if src == nil {
			return nil, record.ShapeMismatch(name, []int{rows, cols}, []int{0, 0})
		}
		r, c := src.Dims()
		if r != rows || c != cols {
			return nil, record.ShapeMismatch(name, []int{rows, cols}, []int{r, c})
		}
		out[k] = &Grid{Name: name, Kind: kind, Data: mat.DenseCopyOf(src)}
	}
	return out, nil
}

// NewStack builds n layers of rows x cols from fill.
func NewStack(name string, kind Kind, n, rows, cols int, fill Fill) (*Stack, error) {
	if n < 0 {
		return nil, record.ShapeMismatch(name, []int{0}, []int{n})
	}
	layers, err := fill.layers(name, kind, n, rows, cols)
	if err != nil {
		return nil, err
	}
	return &Stack{Name: name, Kind: kind, Layers: layers}, nil
}

func (s *Stack) Len() int { return len(s.Layers) }

func (s *Stack) Layer(k int) *Grid { return s.Layers[k] }

// Shape returns (layers, rows, cols).
func (s *Stack) Shape() []int {
	if len(s.Layers) == 0 {
		return []int{0, 0, 0}
	}
	r, c := s.Layers[0].Dims()
	return []int{len(s.Layers), r, c}
}

// Check verifies the stack has n layers of rows x cols.
func (s *Stack) Check(n, rows, cols int) error {
	want := []int{n, rows, cols}
	if len(s.Layers) != n {
		return record.ShapeMismatch(s.Name, want, s.Shape())
	}
	for _, g := range s.Layers {
		if g == nil {
			return record.ShapeMismatch(s.Name, want, s.Shape())
		}
		r, c := g.Dims()
		if r != rows || c != cols {
			return record.ShapeMismatch(s.Name, want, []int{n, r, c})
		}
	}
	return nil
}

// Step binds layer k of s to a plan step, so the same descriptor drives both
// reading and writing.
func (s *Stack) Step(k int, label string, included bool) record.Step {
	return record.Step{
		Name:     s.Name,
		Index:    k,
		Label:    label,
		Included: included,
		Read: func(r *record.Reader) error {
			rows, cols := s.Layers[k].Dims()
			g, err := Load(r, s.Name, label, rows, cols, s.Kind)
			if err != nil {
				return err
			}
			s.Layers[k] = g
			return nil
		},
		Write: func(w io.Writer) error {
			return s.Layers[k].Render(w, label)
		},
	}
}

// Stats summarises a stack for logs and replies.
type Stats struct {
	Name   string  `json:"name"`
	Layers int     `json:"layers"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (s *Stack) Stats() Stats {
	st := Stats{Name: s.Name, Layers: len(s.Layers), Min: math.Inf(1), Max: math.Inf(-1)}
	for _, g := range s.Layers {
		lo, hi := g.MinMax()
		st.Min = math.Min(st.Min, lo)
		st.Max = math.Max(st.Max, hi)
	}
	if len(s.Layers) == 0 {
		st.Min, st.Max = 0, 0
	}
	return st
}
