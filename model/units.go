package model

import "sort"

// UnitTable maps unit numbers found in package files to the units the
// packages were remapped to. Original units recorded here are excluded from
// further unit allocation. Callers own the table and pass it to loaders.
type UnitTable map[int]int

// Register records that original was replaced by assigned.
func (t UnitTable) Register(original, assigned int) {
	if t == nil || original <= 0 {
		return
	}
	t[original] = assigned
}

// Excluded reports whether unit was taken by a package file.
func (t UnitTable) Excluded(unit int) bool {
	_, ok := t[unit]
	return ok
}

// Originals lists the registered original units in ascending order.
func (t UnitTable) Originals() []int {
	out := make([]int, 0, len(t))
	for u := range t {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

// Next returns the smallest unit >= from that is not excluded.
func (t UnitTable) Next(from int) int {
	u := from
	for t.Excluded(u) {
		u++
	}
	return u
}
