package record

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	Int Kind = iota
	Float
)

// Field describes one positional token of a header line. Format, when set,
// is a fixed-width verb and the token is written without a separator.
type Field struct {
	Name   string
	Kind   Kind
	Format string
}

// Header holds the typed values of a parsed header line.
type Header struct {
	Ints   map[string]int
	Floats map[string]float64
	// Extra holds tokens beyond the declared fields, e.g. option keywords.
	Extra []string
}

func NewHeader() *Header {
	return &Header{
		Ints:   make(map[string]int),
		Floats: make(map[string]float64),
	}
}

// ParseHeader converts the tokens of line into fields, position by position.
func ParseHeader(line string, lineNo int, fields []Field) (*Header, error) {
	tokens := strings.Fields(StripComment(line))
	h := NewHeader()
	for i, f := range fields {
		if i >= len(tokens) {
			return nil, &FormatError{Field: f.Name, Line: lineNo}
		}
		switch f.Kind {
		case Int:
			v, err := ParseInt(tokens[i], f.Name)
			if err != nil {
				err.Line = lineNo
				return nil, err
			}
			h.Ints[f.Name] = v
		case Float:
			v, err := ParseFloat(tokens[i], f.Name)
			if err != nil {
				err.Line = lineNo
				return nil, err
			}
			h.Floats[f.Name] = v
		}
	}
	if len(tokens) > len(fields) {
		h.Extra = tokens[len(fields):]
	}
	return h, nil
}

// FormatHeader renders h in the order given by fields. Extra tokens follow,
// separated by two spaces.
func FormatHeader(h *Header, fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		var tok string
		switch f.Kind {
		case Int:
			if f.Format != "" {
				tok = fmt.Sprintf(f.Format, h.Ints[f.Name])
			} else {
				tok = strconv.Itoa(h.Ints[f.Name])
			}
		case Float:
			if f.Format != "" {
				tok = fmt.Sprintf(f.Format, h.Floats[f.Name])
			} else {
				tok = FormatFloat(h.Floats[f.Name])
			}
		}
		if f.Format == "" && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	for _, x := range h.Extra {
		b.WriteString("  ")
		b.WriteString(x)
	}
	return b.String()
}

// ParseInt accepts plain integers and integral reals such as "3.0".
func ParseInt(tok, field string) (int, *FormatError) {
	if v, err := strconv.Atoi(tok); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(normalizeExponent(tok), 64)
	if err != nil || f != float64(int(f)) {
		return 0, &FormatError{Field: field, Token: tok, Err: err}
	}
	return int(f), nil
}

func ParseFloat(tok, field string) (float64, *FormatError) {
	v, err := strconv.ParseFloat(normalizeExponent(tok), 64)
	if err != nil {
		return 0, &FormatError{Field: field, Token: tok, Err: err}
	}
	return v, nil
}

// ParseInts converts every token, naming field in any error.
func ParseInts(tokens []string, field string) ([]int, error) {
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := ParseInt(tok, field)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func ParseFloats(tokens []string, field string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := ParseFloat(tok, field)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Fortran writes double precision exponents with a D.
func normalizeExponent(tok string) string {
	return strings.NewReplacer("d", "e", "D", "E").Replace(tok)
}

// FormatFloat writes the shortest representation that reads back to v,
// always with a decimal point or exponent so the token stays a real.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

// JoinInts renders values separated by single spaces.
func JoinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func JoinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = FormatFloat(x)
	}
	return strings.Join(parts, " ")
}
