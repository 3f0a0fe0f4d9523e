package pl

import "sort"

// MappedRow is one P&L-eligible amount carrying its canonical line code.
// AccountNum is empty for rows generated by the allocators.
type MappedRow struct {
	AccountNum string
	Code       string
	Amount     float64
}

// DetailVector maps P&L codes to one signed amount each, for one entity
// and one month.
type DetailVector map[string]float64

// EntityResult is the final transformation output for one entity.
type EntityResult struct {
	Entity string
	Lines  DetailVector
}

// Codes returns the vector's codes in stable order.
func (v DetailVector) Codes() []string {
	codes := make([]string, 0, len(v))
	for code := range v {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// sumByCode totals the amounts carrying the given code.
func sumByCode(rows []MappedRow, code string) float64 {
	var total float64
	for _, row := range rows {
		if row.Code == code {
			total += row.Amount
		}
	}
	return total
}

// dropCode removes every row carrying the given code.
func dropCode(rows []MappedRow, code string) []MappedRow {
	kept := rows[:0]
	for _, row := range rows {
		if row.Code != code {
			kept = append(kept, row)
		}
	}
	return kept
}
