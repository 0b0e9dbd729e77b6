package model

// Unit numbers assigned to remapped package outputs.
const (
	CellBudgetUnit = 53 // cell-by-cell flow terms

	SubOutputUnit  = 2051 // SUB subsidence output (ids15)
	SubSaveUnit    = 2052 // SUB delay-bed restart save
	SubRestartUnit = 2053 // SUB delay-bed restart read

	SubUnit = 32
	UpwUnit = 31
)
