package pl

import (
	"strings"

	"github.com/meridian-games/fecpl/internal/fec"
	"github.com/meridian-games/fecpl/internal/refdata"
)

// ApplyMapping joins netted balances against the entity's PCG mapping and
// keeps only P&L-eligible rows. The second return value lists class-6/7
// accounts that ended up without a usable code; callers report them to the
// operator but the run continues without their amounts.
func ApplyMapping(balances []fec.AccountBalance, table refdata.MappingTable) ([]MappedRow, []string) {
	rows := make([]MappedRow, 0, len(balances))
	var unmapped []string

	for _, bal := range balances {
		code, found := table[bal.AccountNum]
		if !found || isExcludedCode(code) {
			if isOperatingAccount(bal.AccountNum) && !isReservedExclusion(code) {
				unmapped = append(unmapped, bal.AccountNum)
			}
			continue
		}
		rows = append(rows, MappedRow{AccountNum: bal.AccountNum, Code: code, Amount: bal.Amount})
	}
	return rows, unmapped
}

// isExcludedCode reports whether a mapping code keeps the account out of
// the P&L: missing, blank, "na"/"nan"-ish, or a reserved exclusion code.
func isExcludedCode(code string) bool {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return true
	}
	switch strings.ToLower(trimmed) {
	case "na", "nan", "none":
		return true
	}
	_, reserved := ExcludedCodes[trimmed]
	return reserved
}

// isReservedExclusion reports whether the code is a deliberate exclusion
// rather than a mapping gap. Deliberate exclusions are not worth an
// operator warning even on class-6/7 accounts.
func isReservedExclusion(code string) bool {
	_, ok := ExcludedCodes[strings.TrimSpace(code)]
	return ok
}

func isOperatingAccount(account string) bool {
	return strings.HasPrefix(account, "6") || strings.HasPrefix(account, "7")
}
