package sub

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"mfpkg/array"
	"mfpkg/record"
)

// plan lays out datasets 4 through 14 from the current counts:
//
//	4      rnb                      per delay system
//	5-8    hc sfe sfv com           per no-delay system
//	9      material zone table      nmz rows, only with delay systems
//	10-14  dstart dhc dcom dz nz    per delay system
func (p *Package) plan() record.Plan {
	var pl record.Plan
	for k := 0; k < p.Ndb; k++ {
		pl = append(pl, p.Rnb.Step(k, fmt.Sprintf("rnb delay bed %d", k+1), true))
	}
	for k := 0; k < p.Nndb; k++ {
		layer := record.EncodeIndex(p.Ln[k])
		for _, s := range []*array.Stack{p.Hc, p.Sfe, p.Sfv, p.Com} {
			pl = append(pl, s.Step(k, fmt.Sprintf("%s layer %d", s.Name, layer), true))
		}
	}
	for k := 0; k < p.Nmz; k++ {
		pl = append(pl, p.zoneStep(k, p.Ndb > 0))
	}
	for k := 0; k < p.Ndb; k++ {
		layer := record.EncodeIndex(p.Ldn[k])
		for _, s := range []*array.Stack{p.Dstart, p.Dhc, p.Dcom, p.Dz, p.Nz} {
			pl = append(pl, s.Step(k, fmt.Sprintf("%s layer %d", s.Name, layer), true))
		}
	}
	return pl
}

// zoneStep reads or writes row k of the material zone table.
func (p *Package) zoneStep(k int, included bool) record.Step {
	label := fmt.Sprintf("material zone %d", k+1)
	return record.Step{
		Name:     "dp",
		Index:    k,
		Label:    label,
		Included: included,
		Read: func(r *record.Reader) error {
			tokens, err := r.Fields(3, label)
			if err != nil {
				return err
			}
			v, err := record.ParseFloats(tokens, label)
			if err != nil {
				return err
			}
			p.Dp.SetRow(k, v)
			return nil
		},
		Write: func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%15.6g %15.6g %15.6g    #material zone %d data\n",
				p.Dp.At(k, 0), p.Dp.At(k, 1), p.Dp.At(k, 2), k+1)
			return err
		},
	}
}

// Zones returns a copy of the material zone table as rows of Kv, Sse, Ssv.
func (p *Package) Zones() [][]float64 {
	if p.Dp == nil {
		return nil
	}
	r, _ := p.Dp.Dims()
	out := make([][]float64, r)
	for k := range out {
		out[k] = mat.Row(nil, k, p.Dp)
	}
	return out
}
