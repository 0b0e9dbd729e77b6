package upw

import (
	"fmt"

	"mfpkg/record"
)

// plan lays out the per-layer arrays. For each layer k:
//
//	hk
//	hani    when CHANI(k) <= 0
//	vka
//	ss      transient models only
//	sy      transient models with a convertible layer
//	vkcb    when a confining bed sits below the layer
//	wetdry  when wetting is active in a convertible layer
func (p *Package) plan() record.Plan {
	_, _, nlay, _ := p.host.Shape()
	transient := p.host.Transient()

	var pl record.Plan
	for k := 0; k < nlay; k++ {
		label := func(name string) string { return fmt.Sprintf("%s layer %d", name, record.EncodeIndex(k)) }
		convertible := p.Laytyp[k] != 0
		pl = append(pl,
			p.Hk.Step(k, label("hk"), true),
			p.Hani.Step(k, label("hani"), p.Chani[k] <= 0),
			p.Vka.Step(k, label("vka"), true),
			p.Ss.Step(k, label("ss"), transient),
			p.Sy.Step(k, label("sy"), transient && convertible),
			p.Vkcb.Step(k, label("vkcb"), p.host.ConfiningBed(k)),
			p.Wetdry.Step(k, label("wetdry"), p.Laywet[k] != 0 && convertible),
		)
	}
	return pl
}
