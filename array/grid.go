// Package array reads and writes the 2D grid arrays embedded in MODFLOW
// package files, and groups them into per-layer stacks.
package array

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"mfpkg/record"
)

type Kind int

const (
	Real Kind = iota
	Integer
)

func (k Kind) String() string {
	if k == Integer {
		return "integer"
	}
	return "real"
}

// ValuesPerLine is the wrap width of INTERNAL blocks.
var ValuesPerLine = 10

// Grid is a single rows x cols layer.
type Grid struct {
	Name string
	Kind Kind
	Data *mat.Dense
}

// NewGrid returns a grid with every cell set to v.
func NewGrid(name string, kind Kind, rows, cols int, v float64) *Grid {
	d := mat.NewDense(rows, cols, nil)
	if v != 0 {
		raw := d.RawMatrix().Data
		for i := range raw {
			raw[i] = v
		}
	}
	return &Grid{Name: name, Kind: kind, Data: d}
}

func (g *Grid) Dims() (rows, cols int) { return g.Data.Dims() }

func (g *Grid) At(i, j int) float64 { return g.Data.At(i, j) }

func (g *Grid) values() []float64 {
	rows, cols := g.Data.Dims()
	raw := g.Data.RawMatrix()
	if raw.Stride == cols {
		return raw.Data[:rows*cols]
	}
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, g.Data.RawRowView(i)...)
	}
	return out
}

// Constant reports whether every cell holds the same value.
func (g *Grid) Constant() (float64, bool) {
	v := g.values()
	lo, hi := floats.Min(v), floats.Max(v)
	return lo, lo == hi
}

// MinMax returns the smallest and largest cell values.
func (g *Grid) MinMax() (float64, float64) {
	v := g.values()
	return floats.Min(v), floats.Max(v)
}

func (g *Grid) format(v float64) string {
	if g.Kind == Integer {
		return strconv.Itoa(int(v))
	}
	return record.FormatFloat(v)
}

// Render writes the grid as a CONSTANT record when uniform and as a free
// format INTERNAL block otherwise.
func (g *Grid) Render(w io.Writer, label string) error {
	bw := bufio.NewWriter(w)
	if v, ok := g.Constant(); ok {
		fmt.Fprintf(bw, "CONSTANT %s  #%s\n", g.format(v), label)
		return bw.Flush()
	}
	fmt.Fprintf(bw, "INTERNAL %s (FREE) -1  #%s\n", g.format(1), label)
	perLine := ValuesPerLine
	if perLine < 1 {
		perLine = 1
	}
	rows, cols := g.Data.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				if j%perLine == 0 {
					bw.WriteByte('\n')
				} else {
					bw.WriteByte(' ')
				}
			}
			bw.WriteString(g.format(g.Data.At(i, j)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Load reads one array control record and the values it refers to.
func Load(r *record.Reader, name, label string, rows, cols int, kind Kind) (*Grid, error) {
	line, err := r.Line()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &record.FormatError{Field: label, Line: r.LineNo()}
		}
		return nil, err
	}
	tokens := strings.Fields(record.StripComment(line))
	if len(tokens) == 0 {
		return nil, &record.FormatError{Field: label + " control record", Line: r.LineNo()}
	}

	switch strings.ToUpper(tokens[0]) {
	case "CONSTANT":
		if len(tokens) < 2 {
			return nil, &record.FormatError{Field: label + " constant", Line: r.LineNo()}
		}
		v, err := parseValue(tokens[1], label, kind)
		if err != nil {
			return nil, err
		}
		return NewGrid(name, kind, rows, cols, v), nil
	case "INTERNAL":
		mult, err := multiplier(tokens, 1, label, kind)
		if err != nil {
			return nil, err
		}
		g := NewGrid(name, kind, rows, cols, 0)
		if err := fill(g, r, label, mult); err != nil {
			return nil, err
		}
		return g, nil
	case "OPEN/CLOSE":
		if len(tokens) < 2 {
			return nil, &record.FormatError{Field: label + " file name", Line: r.LineNo()}
		}
		mult, err := multiplier(tokens, 2, label, kind)
		if err != nil {
			return nil, err
		}
		g := NewGrid(name, kind, rows, cols, 0)
		if err := openClose(g, r, tokens[1], label, mult); err != nil {
			return nil, err
		}
		return g, nil
	case "EXTERNAL":
		return nil, &record.UnsupportedError{Package: name, Reason: "EXTERNAL array control records need a unit table"}
	default:
		return nil, &record.UnsupportedError{Package: name, Reason: fmt.Sprintf("array control record %q", tokens[0])}
	}
}

func openClose(g *Grid, r *record.Reader, path, label string, mult float64) error {
	fsys := r.FS()
	if fsys == nil {
		return &record.UnsupportedError{Package: g.Name, Reason: "OPEN/CLOSE array without a file system"}
	}
	f, err := fsys.Open(path)
	if err != nil {
		return &record.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return fill(g, record.NewReader(f), label, mult)
}

// multiplier reads CNSTNT at position i. Zero means the values are used as read.
func multiplier(tokens []string, i int, label string, kind Kind) (float64, error) {
	if len(tokens) <= i {
		return 1, nil
	}
	v, err := parseValue(tokens[i], label+" multiplier", kind)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 1, nil
	}
	return v, nil
}

func fill(g *Grid, r *record.Reader, label string, mult float64) error {
	rows, cols := g.Data.Dims()
	tokens, err := r.Fields(rows*cols, label)
	if err != nil {
		return err
	}
	for n, tok := range tokens {
		v, err := parseValue(tok, label, g.Kind)
		if err != nil {
			return err
		}
		g.Data.Set(n/cols, n%cols, v*mult)
	}
	return nil
}

func parseValue(tok, field string, kind Kind) (float64, error) {
	if kind == Integer {
		v, err := record.ParseInt(tok, field)
		if err != nil {
			return 0, err
		}
		return float64(v), nil
	}
	v, err := record.ParseFloat(tok, field)
	if err != nil {
		return 0, err
	}
	return v, nil
}
