package pl

// Canonical code tables for the group P&L. Every component takes these
// tables from here rather than redeclaring them.

// Aggregate bucket codes produced by the PCG mapping. Each bucket is
// replaced downstream by allocated detail lines.
const (
	CodeRevenueBucket = "rev_to_allocate"
	CodeCOGSBucket    = "cogs_to_allocate"
	CodePayrollBucket = "rh_to_allocate"
)

// Lease-reclassification codes (IFRS 16).
const (
	CodeRent            = "i2"
	CodeRentRetagged    = "i2_ifrs16"
	CodeLeaseActivation = "i3"
	CodeLeaseDepr       = "m4"
)

// CodePayrollDepr carries the synthetic depreciation mirroring the payroll
// activation lines ("D&A on HR").
const CodePayrollDepr = "m3"

// ExcludedCodes mark accounts kept out of the P&L stream. Blank and
// "na"/"nan"-like codes are handled separately by isExcludedCode.
var ExcludedCodes = map[string]struct{}{
	"NA":              {},
	"below_ebit":      {},
	"management_fees": {},
}

// RevenueBUCodes maps business units to revenue detail lines.
var RevenueBUCodes = map[string]string{
	"Publishing":   "a1",
	"Distribution": "a2",
	"RR":           "a3",
	"MGG":          "a4",
	"Autres B2C":   "a5",
	"B2B":          "a6",
}

// COGSBUCodes maps business units to COGS detail lines.
var COGSBUCodes = map[string]string{
	"Publishing":   "b1",
	"Distribution": "b2",
	"Celsius":      "b3",
}

// PayrollCodes maps payroll cost types to detail lines.
var PayrollCodes = map[string]string{
	"Operating staff costs":        "d1",
	"Operating activation":         "d2",
	"Activation Liveops":           "d3",
	"Activation Internal Projects": "d4",
	"CIJV":                         "d5",
	"Non-operating staff costs":    "h1",
	"Non-operating activation":     "h2",
}

// PayrollStaffTypes are prorated within the entity's own payroll envelope.
// Every other payroll type is an activation, prorated by the entity's
// share of its group total.
var PayrollStaffTypes = map[string]struct{}{
	"Operating staff costs":     {},
	"Non-operating staff costs": {},
}

// ChargeCodes are forced negative when a statement is built, regardless of
// the upstream sign.
var ChargeCodes = map[string]struct{}{
	"b1": {}, "b2": {}, "b3": {},
	"d1": {},
	"e1": {}, "e2": {}, "e3": {}, "e4": {},
	"f1": {}, "f2": {}, "f3": {},
	"h1": {},
	"i1": {}, "i2": {}, "i4": {}, "i5": {}, "i6": {}, "i7": {}, "i8": {},
	"i9": {}, "i10": {}, "i11": {}, "i12": {},
	"j1": {}, "j2": {}, "j3": {}, "j4": {},
	"m1": {}, "m2": {}, "m4": {},
}

// ValidCodes enumerates every code a mapping sheet may legitimately
// carry: the detail lines of the structures, the aggregate buckets and
// the reserved exclusion codes. Anything else is a typo in the workbook.
var ValidCodes = map[string]struct{}{
	"a1": {}, "a2": {}, "a3": {}, "a4": {}, "a5": {}, "a6": {},
	"b1": {}, "b2": {}, "b3": {},
	"c1": {},
	"d1": {}, "d2": {}, "d3": {}, "d4": {}, "d5": {},
	"e1": {}, "e2": {}, "e3": {}, "e4": {},
	"f1": {}, "f2": {}, "f3": {},
	"g1": {},
	"h1": {}, "h2": {},
	"i1": {}, "i2": {}, "i3": {}, "i4": {}, "i5": {}, "i6": {}, "i7": {},
	"i8": {}, "i9": {}, "i10": {}, "i11": {}, "i12": {},
	"i2_ifrs16": {},
	"j1":        {}, "j2": {}, "j3": {}, "j4": {},
	"k1": {},
	"m1": {}, "m2": {}, "m3": {}, "m4": {},
	"n1": {},
	CodeRevenueBucket: {}, CodeCOGSBucket: {}, CodePayrollBucket: {},
	"below_ebit": {}, "management_fees": {}, "NA": {},
}

// Entities processed by a monthly run.
var Entities = []string{"FR", "PID", "CELSIUS", "VERTICAL"}

// ReportingGroup names a consolidated view and its member entities.
type ReportingGroup struct {
	Name    string
	Members []string
}

// ReportingGroups lists the produced statements, in workbook order.
var ReportingGroups = []ReportingGroup{
	{Name: "P&L PID", Members: []string{"FR", "PID"}},
	{Name: "P&L Celsius", Members: []string{"CELSIUS", "VERTICAL"}},
	{Name: "P&L Conso", Members: []string{"FR", "PID", "CELSIUS", "VERTICAL"}},
}

// PayrollGroups pair the entities that share a payroll allocation basis.
var PayrollGroups = map[string][]string{
	"PID+FR":           {"FR", "PID"},
	"CELSIUS+VERTICAL": {"CELSIUS", "VERTICAL"},
}

// PayrollGroupOf returns the payroll group an entity belongs to.
func PayrollGroupOf(entity string) (string, []string, bool) {
	for group, members := range PayrollGroups {
		for _, member := range members {
			if member == entity {
				return group, members, true
			}
		}
	}
	return "", nil, false
}
