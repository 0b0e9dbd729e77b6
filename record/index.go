package record

// Layer, system and period indices are zero-based in memory and one-based on
// disk. These are the only places the offset is applied.

func EncodeIndex(i int) int { return i + 1 }

func DecodeIndex(v int) int { return v - 1 }

func EncodeIndices(idx []int) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = EncodeIndex(v)
	}
	return out
}

func DecodeIndices(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = DecodeIndex(x)
	}
	return out
}

// ReadIndices reads n one-based indices and returns them zero-based.
func (r *Reader) ReadIndices(n int, field string) ([]int, error) {
	tokens, err := r.Fields(n, field)
	if err != nil {
		return nil, err
	}
	v, err := ParseInts(tokens, field)
	if err != nil {
		return nil, err
	}
	return DecodeIndices(v), nil
}
