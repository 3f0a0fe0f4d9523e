package quality

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-games/fecpl/internal/fec"
	"github.com/meridian-games/fecpl/internal/pl"
	"github.com/meridian-games/fecpl/internal/refdata"
)

func qPeriod() fec.Period {
	return fec.Period{Year: 2025, Month: time.December}
}

func qDate(d int) time.Time {
	return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC)
}

func hasStatus(results []CheckResult, status Status) bool {
	for _, r := range results {
		if r.Status == status {
			return true
		}
	}
	return false
}

func TestCheckLedgerBalanced(t *testing.T) {
	lines := []fec.LedgerLine{
		{JournalCode: "VE", AccountNum: "706100", Date: qDate(5), Credit: 100},
		{JournalCode: "VE", AccountNum: "411000", Date: qDate(5), Debit: 100},
	}
	results := CheckLedger("FR", lines, qPeriod())
	if hasStatus(results, StatusError) || hasStatus(results, StatusWarn) {
		t.Fatalf("expected clean results, got %+v", results)
	}
}

func TestCheckLedgerImbalanceAndNullDates(t *testing.T) {
	lines := []fec.LedgerLine{
		{JournalCode: "VE", AccountNum: "706100", Date: qDate(5), Credit: 100},
		{JournalCode: "VE", AccountNum: "411000", Date: qDate(5), Debit: 50},
		{JournalCode: "VE", AccountNum: "411000", Debit: 10}, // null date
	}
	results := CheckLedger("FR", lines, qPeriod())
	if !hasStatus(results, StatusError) {
		t.Fatalf("expected imbalance error, got %+v", results)
	}
	if !hasStatus(results, StatusWarn) {
		t.Fatalf("expected null-date warning, got %+v", results)
	}
}

func TestCheckLedgerEmptyMonth(t *testing.T) {
	lines := []fec.LedgerLine{
		{JournalCode: "AN", AccountNum: "706100", Date: qDate(1), Credit: 100},
	}
	results := CheckLedger("FR", lines, qPeriod())
	if !hasStatus(results, StatusError) {
		t.Fatalf("expected no-rows error, got %+v", results)
	}
}

func TestCheckMappingFlagsOperatingGaps(t *testing.T) {
	table := refdata.MappingTable{"706100": "a1"}
	lines := []fec.LedgerLine{
		{JournalCode: "VE", AccountNum: "706100", Date: qDate(5), Credit: 100},
		{JournalCode: "AC", AccountNum: "622600", Date: qDate(5), Debit: 10},
		{JournalCode: "BQ", AccountNum: "512000", Date: qDate(5), Debit: 10},
	}
	results := CheckMapping("FR", table, lines, qPeriod())
	if !hasStatus(results, StatusWarn) {
		t.Fatalf("expected unmapped warning for 622600, got %+v", results)
	}
}

func TestCheckMappingFlagsUnknownCodes(t *testing.T) {
	table := refdata.MappingTable{
		"706100": "a1",
		"613200": "i2",
		"512000": "NA",     // deliberate exclusion, known
		"622600": "zz9",    // typo
		"641100": "d1_old", // stale code
	}
	results := CheckMapping("FR", table, nil, qPeriod())
	var flagged string
	for _, r := range results {
		if r.Status == StatusWarn && strings.Contains(r.Detail, "unknown codes") {
			flagged = r.Value
		}
	}
	if flagged == "" {
		t.Fatalf("expected unknown-code warning, got %+v", results)
	}
	if !strings.Contains(flagged, "zz9") || !strings.Contains(flagged, "d1_old") {
		t.Fatalf("expected both typos listed, got %q", flagged)
	}
	if strings.Contains(flagged, "NA") {
		t.Fatalf("reserved exclusion must not be flagged: %q", flagged)
	}
}

func TestCheckMappingAllCodesKnown(t *testing.T) {
	table := refdata.MappingTable{"706100": "rev_to_allocate", "613200": "i2"}
	results := CheckMapping("FR", table, nil, qPeriod())
	if hasStatus(results, StatusWarn) {
		t.Fatalf("expected no warnings, got %+v", results)
	}
}

func TestCheckDetailsNonFinite(t *testing.T) {
	details := map[string]pl.EntityResult{
		"FR":  {Entity: "FR", Lines: pl.DetailVector{"a1": 100, "d1": math.NaN()}},
		"PID": {Entity: "PID", Lines: pl.DetailVector{"a1": 200}},
	}
	results := CheckDetails(details)
	if len(results) != 1 || results[0].Status != StatusError {
		t.Fatalf("expected one error for FR, got %+v", results)
	}
	if !strings.Contains(results[0].Value, "d1") {
		t.Fatalf("expected offending code listed, got %q", results[0].Value)
	}
}

func TestCheckPayrollSplitsCompleteness(t *testing.T) {
	splits := []refdata.PayrollSplitRow{
		{Group: "PID+FR", Type: "Operating staff costs", Amount: 100},
	}
	results := CheckPayrollSplits(splits)
	// PID+FR misses types; CELSIUS+VERTICAL is absent entirely.
	if !hasStatus(results, StatusWarn) || !hasStatus(results, StatusError) {
		t.Fatalf("expected warn + error, got %+v", results)
	}
}

func TestCheckBUSplitsMissingBasis(t *testing.T) {
	ledgers := map[string][]fec.LedgerLine{
		"FR": {{JournalCode: "VE", AccountNum: "706100", Date: qDate(5), Credit: 500}},
	}
	mappings := map[string]refdata.MappingTable{
		"FR": {"706100": pl.CodeRevenueBucket},
	}
	results := CheckBUSplits(nil, ledgers, mappings, qPeriod())
	if !hasStatus(results, StatusError) {
		t.Fatalf("expected missing-basis error, got %+v", results)
	}
}

func TestCheckStatementsEBITDA(t *testing.T) {
	statements := map[string]*pl.GroupStatement{
		"P&L PID": {
			Group:  "P&L PID",
			Labels: []string{"EBITDA"},
			Total:  map[string]float64{"EBITDA": -600_000},
		},
	}
	results := CheckStatements(statements)
	if !hasStatus(results, StatusWarn) {
		t.Fatalf("expected very-negative EBITDA warning, got %+v", results)
	}
}

func TestRunProducesReport(t *testing.T) {
	ledgers := map[string][]fec.LedgerLine{
		"FR": {
			{JournalCode: "VE", AccountNum: "706100", Date: qDate(5), Credit: 100},
			{JournalCode: "VE", AccountNum: "411000", Date: qDate(5), Debit: 100},
		},
	}
	mappings := map[string]refdata.MappingTable{"FR": {"706100": "a1"}}
	result := &pl.Result{
		RunID:      uuid.New(),
		Period:     qPeriod(),
		Statements: map[string]*pl.GroupStatement{},
	}

	report := Run(ledgers, mappings, nil, nil, result)
	if report.RunID != result.RunID {
		t.Fatalf("report must carry the run id")
	}
	if len(report.Results) == 0 {
		t.Fatal("expected results")
	}
}
