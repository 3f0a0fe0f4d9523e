package pl

import (
	"fmt"

	"github.com/meridian-games/fecpl/internal/refdata"
)

// PayrollGroupTotal sums the payroll-to-allocate bucket over the group
// members that actually have mapped rows this month. A member without
// data simply does not contribute (partial-group policy).
func PayrollGroupTotal(rowsByEntity map[string][]MappedRow, members []string) float64 {
	var total float64
	for _, member := range members {
		total += sumByCode(rowsByEntity[member], CodePayrollBucket)
	}
	return total
}

// AllocatePayroll replaces the entity's payroll aggregate bucket with the
// detailed cost lines from the group allocation basis.
//
// Staff cost types are prorated within the entity's own payroll envelope:
// each staff row takes its share of the staff-type basis, applied to the
// entity bucket total. Activation types are group-wide figures, so they
// are scaled by the entity's share of the group payroll instead of being
// re-normalized among themselves. Every euro recognized as an activation
// is mirrored by an equal, opposite depreciation charge in the same
// period, so the allocation's net P&L impact is zero.
func AllocatePayroll(rows []MappedRow, splits []refdata.PayrollSplitRow, group string, groupTotal float64) ([]MappedRow, []string) {
	var warnings []string

	entityTotal := sumByCode(rows, CodePayrollBucket)

	basis := payrollSplitsFor(splits, group)
	if len(basis) == 0 {
		warnings = append(warnings, fmt.Sprintf("payroll group %s: no allocation basis, bucket %.2f left unallocated", group, entityTotal))
		return rows, warnings
	}

	ratio := 0.0
	if groupTotal != 0 {
		ratio = entityTotal / groupTotal
	}

	var staffBasisTotal float64
	for _, s := range basis {
		if _, staff := PayrollStaffTypes[s.Type]; staff {
			staffBasisTotal += s.Amount
		}
	}

	rows = dropCode(rows, CodePayrollBucket)

	var activationTotal float64
	for _, s := range basis {
		code, known := PayrollCodes[s.Type]
		if !known {
			warnings = append(warnings, fmt.Sprintf("payroll group %s: unknown cost type %q skipped", group, s.Type))
			continue
		}
		var amount float64
		if _, staff := PayrollStaffTypes[s.Type]; staff {
			if staffBasisTotal != 0 {
				amount = entityTotal * (s.Amount / staffBasisTotal)
			}
		} else {
			amount = s.Amount * ratio
			activationTotal += amount
		}
		rows = append(rows, MappedRow{Code: code, Amount: amount})
	}

	// D&A on HR mirrors the activations recognized above.
	rows = append(rows, MappedRow{Code: CodePayrollDepr, Amount: -activationTotal})

	return rows, warnings
}

func payrollSplitsFor(splits []refdata.PayrollSplitRow, group string) []refdata.PayrollSplitRow {
	var out []refdata.PayrollSplitRow
	for _, s := range splits {
		if s.Group == group {
			out = append(out, s)
		}
	}
	return out
}
