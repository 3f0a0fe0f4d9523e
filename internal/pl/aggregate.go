package pl

// Aggregate folds the transformed rows of one entity into its detail
// vector: one signed amount per P&L code.
func Aggregate(entity string, rows []MappedRow) EntityResult {
	lines := make(DetailVector, len(rows))
	for _, row := range rows {
		lines[row.Code] += row.Amount
	}
	return EntityResult{Entity: entity, Lines: lines}
}
