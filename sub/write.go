package sub

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"mfpkg/array"
	"mfpkg/record"
)

// Write renders the package file. The record sequence is derived from the
// current field values only.
func (p *Package) Write(w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, p.Heading)
	fmt.Fprintln(bw, record.FormatHeader(p.header(), header))
	if p.Nndb > 0 {
		fmt.Fprintln(bw, record.JoinInts(record.EncodeIndices(p.Ln)))
	}
	if p.Ndb > 0 {
		fmt.Fprintln(bw, record.JoinInts(record.EncodeIndices(p.Ldn)))
	}
	if err := record.Write(p.plan(), bw); err != nil {
		return err
	}
	if err := p.writeOutput(bw); err != nil {
		return &record.IOError{Op: "write output control", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &record.IOError{Op: "write", Err: err}
	}
	return nil
}

// WriteFile writes the package to path. A failed write may leave a
// truncated file behind.
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
	h.Ints["isubcb"] = p.Isubcb
	h.Ints["isuboc"] = p.Isuboc
	h.Ints["nndb"] = p.Nndb
	h.Ints["ndb"] = p.Ndb
	h.Ints["nmz"] = p.Nmz
	h.Ints["nn"] = p.Nn
	h.Floats["ac1"] = p.Ac1
	h.Floats["ac2"] = p.Ac2
	h.Ints["itmin"] = p.Itmin
	h.Ints["idsave"] = p.Idsave
	h.Ints["idrest"] = p.Idrest
	return h
}

// Validate checks that every array matches the count that governs it.
func (p *Package) Validate() error {
	if err := p.checkCounts(); err != nil {
		return err
	}
	nrow, ncol, nlay, _ := p.host.Shape()
	if p.Nndb > 0 {
		if len(p.Ln) != p.Nndb {
			return record.ShapeMismatch("ln", []int{p.Nndb}, []int{len(p.Ln)})
		}
		if err := checkLayers("ln", p.Ln, nlay); err != nil {
			return err
		}
		if err := checkStacks(p.Nndb, nrow, ncol, []namedStack{
			{"hc", p.Hc}, {"sfe", p.Sfe}, {"sfv", p.Sfv}, {"com", p.Com},
		}); err != nil {
			return err
		}
	}
	if p.Ndb > 0 {
		if len(p.Ldn) != p.Ndb {
			return record.ShapeMismatch("ldn", []int{p.Ndb}, []int{len(p.Ldn)})
		}
		if err := checkLayers("ldn", p.Ldn, nlay); err != nil {
			return err
		}
		if err := checkStacks(p.Ndb, nrow, ncol, []namedStack{
			{"rnb", p.Rnb}, {"dstart", p.Dstart}, {"dhc", p.Dhc}, {"dcom", p.Dcom}, {"dz", p.Dz}, {"nz", p.Nz},
		}); err != nil {
			return err
		}
		if p.Dp == nil {
			return record.ShapeMismatch("dp", []int{p.Nmz, 3}, []int{0, 0})
		}
		if r, c := p.Dp.Dims(); r != p.Nmz || c != 3 {
			return record.ShapeMismatch("dp", []int{p.Nmz, 3}, []int{r, c})
		}
	}
	if p.Isuboc > 0 {
		if len(p.Ids15) != ids15Len {
			return record.ShapeMismatch("ids15", []int{ids15Len}, []int{len(p.Ids15)})
		}
		if len(p.Ids16) != p.Isuboc {
			return record.ShapeMismatch("ids16", []int{p.Isuboc, ids16Len}, []int{len(p.Ids16), ids16Len})
		}
		for _, row := range p.Ids16 {
			if len(row) != ids16Len {
				return record.ShapeMismatch("ids16", []int{p.Isuboc, ids16Len}, []int{len(p.Ids16), len(row)})
			}
		}
	}
	return nil
}

type namedStack struct {
	name string
	s    *array.Stack
}

func checkStacks(n, rows, cols int, stacks []namedStack) error {
	for _, ns := range stacks {
		if ns.s == nil {
			return record.ShapeMismatch(ns.name, []int{n, rows, cols}, []int{0, 0, 0})
		}
		if err := ns.s.Check(n, rows, cols); err != nil {
			return err
		}
	}
	return nil
}
