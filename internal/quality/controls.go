// Package quality runs the post-run sanity checks on the pipeline's
// inputs and outputs. Checks never block the close: they produce a
// tabular report shipped next to the statements so the operator can judge
// the month's data quality.
package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/meridian-games/fecpl/internal/fec"
	"github.com/meridian-games/fecpl/internal/pl"
	"github.com/meridian-games/fecpl/internal/refdata"
)

// Status grades one check result.
type Status string

const (
	StatusOK    Status = "OK"
	StatusWarn  Status = "WARN"
	StatusError Status = "ERROR"
)

// CheckResult is one line of the controls report.
type CheckResult struct {
	Status Status
	Detail string
	Value  string
}

// Report collects every check of one run.
type Report struct {
	RunID   uuid.UUID
	Period  fec.Period
	Results []CheckResult
}

// debitCreditTolerance is the acceptable monthly D/C gap in euros.
const debitCreditTolerance = 1.0

// ebitdaAlertFloor flags implausibly negative consolidated EBITDA.
const ebitdaAlertFloor = -500_000.0

// expectedPayrollTypes must all be present in each group's basis.
var expectedPayrollTypes = []string{
	"Operating staff costs", "Non-operating staff costs",
	"Operating activation", "Activation Liveops",
	"Activation Internal Projects", "CIJV", "Non-operating activation",
}

func ok(detail string) CheckResult {
	return CheckResult{Status: StatusOK, Detail: detail}
}

func warn(detail, value string) CheckResult {
	return CheckResult{Status: StatusWarn, Detail: detail, Value: value}
}

func fail(detail, value string) CheckResult {
	return CheckResult{Status: StatusError, Detail: detail, Value: value}
}

// CheckLedger validates one entity's raw ledger for the period.
func CheckLedger(entity string, lines []fec.LedgerLine, period fec.Period) []CheckResult {
	var results []CheckResult

	var count int
	var debit, credit float64
	var negatives int
	for _, line := range lines {
		if line.JournalCode == fec.OpeningJournalCode || !period.Contains(line.Date) {
			continue
		}
		count++
		debit += line.Debit
		credit += line.Credit
		if line.Debit < 0 || line.Credit < 0 {
			negatives++
		}
	}

	if count == 0 {
		results = append(results, fail(fmt.Sprintf("FEC %s: no rows for %s", entity, period), ""))
	} else {
		results = append(results, ok(fmt.Sprintf("FEC %s: %d rows", entity, count)))
	}

	if gap := math.Abs(debit - credit); gap > debitCreditTolerance {
		results = append(results, fail(fmt.Sprintf("FEC %s: debit/credit imbalance", entity), fmt.Sprintf("%.2f", gap)))
	} else {
		results = append(results, ok(fmt.Sprintf("FEC %s: debit/credit balanced", entity)))
	}

	var nullDates int
	for _, line := range lines {
		if line.Date.IsZero() {
			nullDates++
		}
	}
	if nullDates > 0 {
		results = append(results, warn(fmt.Sprintf("FEC %s: unparsed posting dates", entity), fmt.Sprintf("%d rows", nullDates)))
	}
	if negatives > 0 {
		results = append(results, warn(fmt.Sprintf("FEC %s: negative amounts", entity), fmt.Sprintf("%d rows", negatives)))
	}
	return results
}

// isKnownCode reports whether a mapping code belongs to the canonical
// table. Blank and "na"/"nan"-like codes count as known: they exclude the
// account deliberately rather than pointing at a nonexistent line.
func isKnownCode(code string) bool {
	trimmed := strings.TrimSpace(code)
	if _, ok := pl.ValidCodes[trimmed]; ok {
		return true
	}
	switch strings.ToLower(trimmed) {
	case "", "na", "nan", "none":
		return true
	}
	_, ok := pl.ValidCodes[strings.ToLower(trimmed)]
	return ok
}

// CheckMapping validates one entity's mapping table: every code must be a
// canonical P&L code and every class-6/7 account in the ledger must be
// covered.
func CheckMapping(entity string, table refdata.MappingTable, lines []fec.LedgerLine, period fec.Period) []CheckResult {
	var results []CheckResult

	seenCodes := make(map[string]struct{})
	var unknown []string
	for _, code := range table {
		trimmed := strings.TrimSpace(code)
		if isKnownCode(trimmed) {
			continue
		}
		if _, done := seenCodes[trimmed]; done {
			continue
		}
		seenCodes[trimmed] = struct{}{}
		unknown = append(unknown, trimmed)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		results = append(results, warn(fmt.Sprintf("Mapping %s: unknown codes", entity), strings.Join(unknown, ", ")))
	} else {
		results = append(results, ok(fmt.Sprintf("Mapping %s: all codes known", entity)))
	}

	seen := make(map[string]struct{})
	var unmapped []string
	for _, line := range lines {
		if line.JournalCode == fec.OpeningJournalCode || !period.Contains(line.Date) {
			continue
		}
		class := line.AccountClass()
		if class != '6' && class != '7' {
			continue
		}
		if _, done := seen[line.AccountNum]; done {
			continue
		}
		seen[line.AccountNum] = struct{}{}
		if _, mapped := table[line.AccountNum]; !mapped {
			unmapped = append(unmapped, line.AccountNum)
		}
	}
	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		results = append(results, warn(fmt.Sprintf("Mapping %s: unmapped class-6/7 accounts", entity), strings.Join(unmapped, ", ")))
	} else {
		results = append(results, ok(fmt.Sprintf("Mapping %s: all class-6/7 accounts mapped", entity)))
	}
	return results
}

// CheckPayrollSplits validates the payroll basis completeness per group.
func CheckPayrollSplits(splits []refdata.PayrollSplitRow) []CheckResult {
	var results []CheckResult

	groups := make([]string, 0, len(pl.PayrollGroups))
	for group := range pl.PayrollGroups {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		present := make(map[string]float64)
		for _, s := range splits {
			if s.Group == group {
				present[s.Type] = s.Amount
			}
		}
		if len(present) == 0 {
			results = append(results, fail(fmt.Sprintf("Payroll basis: group %s absent", group), ""))
			continue
		}

		var missing, zeroes []string
		for _, typ := range expectedPayrollTypes {
			amount, ok := present[typ]
			if !ok {
				missing = append(missing, typ)
			} else if amount == 0 {
				zeroes = append(zeroes, typ)
			}
		}
		if len(missing) > 0 {
			results = append(results, warn(fmt.Sprintf("Payroll basis %s: missing types", group), strings.Join(missing, ", ")))
		} else {
			results = append(results, ok(fmt.Sprintf("Payroll basis %s: all types present", group)))
		}
		if len(zeroes) > 0 {
			results = append(results, warn(fmt.Sprintf("Payroll basis %s: zero amounts", group), strings.Join(zeroes, ", ")))
		}
	}
	return results
}

// CheckBUSplits verifies that every entity carrying a revenue or COGS
// bucket this month also has a matching allocation basis. Bucket totals
// are recomputed from the raw inputs so the check stays independent of
// the pipeline's own allocation path.
func CheckBUSplits(
	splits []refdata.BUSplitRow,
	ledgers map[string][]fec.LedgerLine,
	mappings map[string]refdata.MappingTable,
	period fec.Period,
) []CheckResult {
	var results []CheckResult

	buckets := []struct {
		code string
		kind string
	}{
		{pl.CodeRevenueBucket, "Revenue"},
		{pl.CodeCOGSBucket, "COGS"},
	}

	for _, entity := range pl.Entities {
		lines, hasLedger := ledgers[entity]
		table, hasMapping := mappings[entity]
		if !hasLedger || !hasMapping {
			continue
		}
		mapped, _ := pl.ApplyMapping(fec.NetByAccount(lines, period), table)
		totals := make(map[string]float64)
		for _, row := range mapped {
			totals[row.Code] += row.Amount
		}

		for _, bucket := range buckets {
			total := totals[bucket.code]
			if total == 0 {
				continue
			}
			var found bool
			for _, s := range splits {
				if s.Entity == entity && s.Kind == bucket.kind {
					found = true
					break
				}
			}
			if !found {
				results = append(results, fail(
					fmt.Sprintf("BU basis %s: %s absent while FEC carries %.0f", entity, bucket.kind, total), ""))
			} else {
				results = append(results, ok(
					fmt.Sprintf("BU basis %s: %s present (%.0f in FEC)", entity, bucket.kind, total)))
			}
		}
	}
	return results
}

// CheckDetails scans the per-entity detail vectors for non-finite
// amounts before they reach a statement.
func CheckDetails(details map[string]pl.EntityResult) []CheckResult {
	var results []CheckResult

	entities := make([]string, 0, len(details))
	for entity := range details {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	for _, entity := range entities {
		detail := details[entity]
		var bad []string
		for _, code := range detail.Lines.Codes() {
			if amount := detail.Lines[code]; math.IsNaN(amount) || math.IsInf(amount, 0) {
				bad = append(bad, code)
			}
		}
		if len(bad) > 0 {
			results = append(results, fail(fmt.Sprintf("Details %s: non-finite amounts", entity), strings.Join(bad, ", ")))
		}
	}
	return results
}

// CheckStatements sanity-checks the consolidated output.
func CheckStatements(statements map[string]*pl.GroupStatement) []CheckResult {
	var results []CheckResult

	names := make([]string, 0, len(statements))
	for name := range statements {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		statement := statements[name]
		for _, line := range statement.Lines() {
			if math.IsNaN(line.Amount) || math.IsInf(line.Amount, 0) {
				results = append(results, fail(fmt.Sprintf("%s: non-finite amount", name), line.Label))
			}
		}
		if ebitda, found := statement.Total["EBITDA"]; found {
			if ebitda < ebitdaAlertFloor {
				results = append(results, warn(fmt.Sprintf("%s: EBITDA very negative", name), fmt.Sprintf("%.0f", ebitda)))
			} else {
				results = append(results, ok(fmt.Sprintf("%s: EBITDA = %.0f", name, ebitda)))
			}
		}
	}
	return results
}

// Run executes every control over one pipeline run.
func Run(
	ledgers map[string][]fec.LedgerLine,
	mappings map[string]refdata.MappingTable,
	buSplits []refdata.BUSplitRow,
	payrollSplits []refdata.PayrollSplitRow,
	result *pl.Result,
) *Report {
	report := &Report{RunID: result.RunID, Period: result.Period}

	for _, entity := range pl.Entities {
		lines, hasLedger := ledgers[entity]
		if hasLedger {
			report.Results = append(report.Results, CheckLedger(entity, lines, result.Period)...)
		}
		if table, hasMapping := mappings[entity]; hasLedger && hasMapping {
			report.Results = append(report.Results, CheckMapping(entity, table, lines, result.Period)...)
		}
	}
	report.Results = append(report.Results, CheckPayrollSplits(payrollSplits)...)
	report.Results = append(report.Results, CheckBUSplits(buSplits, ledgers, mappings, result.Period)...)
	report.Results = append(report.Results, CheckDetails(result.Details)...)
	report.Results = append(report.Results, CheckStatements(result.Statements)...)
	return report
}
