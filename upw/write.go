package upw

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"mfpkg/array"
	"mfpkg/record"
)

// Write renders the package file. Wetting and parameters are rejected
// before anything is written.
func (p *Package) Write(w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, p.Heading)
	fmt.Fprintln(bw, record.FormatHeader(p.header(), header))
	fmt.Fprintf(bw, "%s  #LAYTYP\n", record.JoinInts(p.Laytyp))
	fmt.Fprintf(bw, "%s  #LAYAVG\n", record.JoinInts(p.Layavg))
	fmt.Fprintf(bw, "%s  #CHANI\n", record.JoinFloats(p.Chani))
	fmt.Fprintf(bw, "%s  #LAYVKA\n", record.JoinInts(p.Layvka))
	fmt.Fprintf(bw, "%s  #LAYWET\n", record.JoinInts(p.Laywet))
	if err := record.Write(p.plan(), bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return &record.IOError{Op: "write", Err: err}
	}
	return nil
}

// WriteFile writes the package to path.
func (p *Package) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &record.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &record.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()
	return p.Write(f)
}

func (p *Package) header() *record.Header {
	h := record.NewHeader()
	h.Ints["iupwcb"] = p.Iupwcb
	h.Floats["hdry"] = p.Hdry
	h.Ints["npupw"] = p.Npupw
	h.Ints["iphdry"] = p.Iphdry
	if p.NoParCheck {
		h.Extra = []string{noParCheck}
	}
	return h
}

// Validate checks the layer flags and stacks against the host grid.
func (p *Package) Validate() error {
	if err := checkScalars(p.Npupw); err != nil {
		return err
	}
	nrow, ncol, nlay, _ := p.host.Shape()
	flags := []struct {
		name string
		n    int
	}{
		{"laytyp", len(p.Laytyp)},
		{"layavg", len(p.Layavg)},
		{"chani", len(p.Chani)},
		{"layvka", len(p.Layvka)},
		{"laywet", len(p.Laywet)},
	}
	for _, f := range flags {
		if f.n != nlay {
			return record.ShapeMismatch(f.name, []int{nlay}, []int{f.n})
		}
	}
	if err := checkWetting(p.Laywet); err != nil {
		return err
	}
	stacks := []struct {
		name string
		s    *array.Stack
	}{
		{"hk", p.Hk}, {"hani", p.Hani}, {"vka", p.Vka}, {"ss", p.Ss},
		{"sy", p.Sy}, {"vkcb", p.Vkcb}, {"wetdry", p.Wetdry},
	}
	for _, s := range stacks {
		if s.s == nil {
			return record.ShapeMismatch(s.name, []int{nlay, nrow, ncol}, []int{0, 0, 0})
		}
		if err := s.s.Check(nlay, nrow, ncol); err != nil {
			return err
		}
	}
	return nil
}
