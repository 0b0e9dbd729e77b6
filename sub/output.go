package sub

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"mfpkg/model"
	"mfpkg/record"
)

// unitMove is a unit remapping waiting for the load to succeed.
type unitMove struct {
	original, assigned int
}

// setOutput installs the output control records, filling the defaults when
// they are missing. Every unit entry of ids15 points at the shared
// subsidence output unit.
func (p *Package) setOutput(ids15 []int, ids16 [][]int) error {
	if p.Isuboc <= 0 {
		p.Ids15, p.Ids16 = nil, nil
		return nil
	}
	_, _, _, nper := p.host.Shape()

	v := make([]int, ids15Len)
	if ids15 != nil {
		if len(ids15) != ids15Len {
			return record.ShapeMismatch("ids15", []int{ids15Len}, []int{len(ids15)})
		}
		copy(v, ids15)
	}
	for i := 1; i < ids15Len; i += 2 {
		v[i] = model.SubOutputUnit
	}

	var rows [][]int
	if ids16 == nil {
		// print and save everything over the whole simulation
		row := make([]int, ids16Len)
		for i := range row {
			row[i] = 1
		}
		row[0], row[1], row[2], row[3] = 0, nper-1, 0, lastTimeStep
		rows = [][]int{row}
		p.Isuboc = 1
	} else {
		if len(ids16) != p.Isuboc {
			return record.ShapeMismatch("ids16", []int{p.Isuboc, ids16Len}, []int{len(ids16), ids16Len})
		}
		rows = make([][]int, len(ids16))
		for k, r := range ids16 {
			if len(r) != ids16Len {
				return record.ShapeMismatch("ids16", []int{p.Isuboc, ids16Len}, []int{len(ids16), len(r)})
			}
			rows[k] = append([]int(nil), r...)
		}
	}
	p.Ids15, p.Ids16 = v, rows
	return nil
}

// readOutput reads datasets 15 and 16. A block missing from the end of the
// file yields nil records so the defaults apply.
func readOutput(rd *record.Reader, isuboc int) ([]int, [][]int, []unitMove, error) {
	more, err := rd.More()
	if err != nil || !more {
		return nil, nil, nil, err
	}
	log.WithFields(log.Fields{"package": Name, "dataset": 15}).Debug("loading output formats and units")
	tokens, err := rd.Fields(ids15Len, "ids15")
	if err != nil {
		return nil, nil, nil, err
	}
	ids15, err := record.ParseInts(tokens, "ids15")
	if err != nil {
		return nil, nil, nil, err
	}
	var moves []unitMove
	for i := 1; i < ids15Len; i += 2 {
		moves = append(moves, unitMove{ids15[i], model.SubOutputUnit})
		ids15[i] = model.SubOutputUnit
	}

	var ids16 [][]int
	for k := 0; k < isuboc; k++ {
		more, err := rd.More()
		if err != nil {
			return nil, nil, nil, err
		}
		if !more {
			if k == 0 {
				return ids15, nil, moves, nil
			}
			return nil, nil, nil, &record.FormatError{Field: fmt.Sprintf("ids16 row %d", k+1), Line: rd.LineNo()}
		}
		log.WithFields(log.Fields{"package": Name, "dataset": 16, "isuboc": k + 1}).Debug("loading output control row")
		field := fmt.Sprintf("ids16 row %d", k+1)
		tokens, err := rd.Fields(ids16Len, field)
		if err != nil {
			return nil, nil, nil, err
		}
		row, err := record.ParseInts(tokens, field)
		if err != nil {
			return nil, nil, nil, err
		}
		copy(row, record.DecodeIndices(row[:ids16IndexCols]))
		ids16 = append(ids16, row)
	}
	return ids15, ids16, moves, nil
}

func (p *Package) writeOutput(w io.Writer) error {
	if p.Isuboc <= 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s  #dataset 15\n", record.JoinInts(p.Ids15)); err != nil {
		return err
	}
	for k, row := range p.Ids16 {
		t := append([]int(nil), row...)
		copy(t, record.EncodeIndices(row[:ids16IndexCols]))
		if _, err := fmt.Fprintf(w, "%s  #dataset 16 isuboc %d\n", record.JoinInts(t), k+1); err != nil {
			return err
		}
	}
	return nil
}
