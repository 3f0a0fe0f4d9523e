package pl

// LeasePolicy selects how rent expenses are reclassified under IFRS 16.
type LeasePolicy int

const (
	// LeaseAdditive keeps rent as booked and layers a capitalized-lease
	// activation plus an equal depreciation charge on top. EBITDA is left
	// untouched by the rent amount.
	LeaseAdditive LeasePolicy = iota
	// LeaseRetag moves the rent amount onto the reclassified rent code
	// and adds only the depreciation charge (legacy behavior).
	LeaseRetag
)

// ReclassifyLeases applies the IFRS 16 treatment to the rent lines. A zero
// rent total is a no-op.
func ReclassifyLeases(rows []MappedRow, policy LeasePolicy) []MappedRow {
	rent := sumByCode(rows, CodeRent)
	if rent == 0 {
		return rows
	}

	switch policy {
	case LeaseRetag:
		retagged := make([]MappedRow, 0, len(rows)+1)
		for _, row := range rows {
			if row.Code == CodeRent {
				row.Code = CodeRentRetagged
			}
			retagged = append(retagged, row)
		}
		return append(retagged, MappedRow{Code: CodeLeaseDepr, Amount: rent})
	default:
		return append(rows,
			MappedRow{Code: CodeLeaseActivation, Amount: rent},
			MappedRow{Code: CodeLeaseDepr, Amount: rent},
		)
	}
}
