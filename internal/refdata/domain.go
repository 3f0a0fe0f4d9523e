package refdata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateAccount indicates that a mapping sheet maps the same account
// number twice. The target P&L code is ambiguous, so this aborts the run.
var ErrDuplicateAccount = errors.New("refdata: duplicate account in mapping")

// MappingEntry links one account number to a P&L detail code.
type MappingEntry struct {
	AccountNum string `validate:"required"`
	Code       string
}

// MappingTable is the per-entity account → P&L code lookup.
type MappingTable map[string]string

// NewMappingTable builds the lookup, rejecting duplicate account numbers.
func NewMappingTable(entries []MappingEntry) (MappingTable, error) {
	table := make(MappingTable, len(entries))
	for _, e := range entries {
		account := strings.TrimSpace(e.AccountNum)
		if account == "" {
			continue
		}
		if _, seen := table[account]; seen {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, account)
		}
		table[account] = strings.TrimSpace(e.Code)
	}
	return table, nil
}

// BUSplitRow is one business-unit allocation basis row for revenue or COGS.
type BUSplitRow struct {
	Entity       string `validate:"required"`
	Kind         string `validate:"required,oneof=Revenue COGS"`
	BusinessUnit string `validate:"required"`
	Amount       float64
}

// PayrollSplitRow is one payroll allocation basis row. Entity here is a
// payroll group name ("PID+FR", "CELSIUS+VERTICAL"), not a single entity.
type PayrollSplitRow struct {
	Group  string `validate:"required"`
	Type   string `validate:"required"`
	Amount float64
}

// RowKind discriminates the three kinds of P&L structure rows.
type RowKind int

const (
	KindDetail RowKind = iota
	KindTotal
	KindMargin
)

func (k RowKind) String() string {
	switch k {
	case KindDetail:
		return "detail"
	case KindTotal:
		return "total"
	case KindMargin:
		return "margin"
	}
	return "unknown"
}

// StructureRow is one declarative P&L line. For total and margin rows the
// code is itself the formula: a "+"-joined list of earlier codes.
type StructureRow struct {
	Code  string
	Label string
	Kind  RowKind
}

// MarginLabels are the structure labels rendered as margins rather than
// plain totals. Margins and totals evaluate identically; the distinction
// only drives styling downstream.
var MarginLabels = map[string]struct{}{
	"Gross margin":  {},
	"EBITDA":        {},
	"EBIT":          {},
	"Net result":    {},
	"Margin on BU":  {},
	"Direct margin": {},
}

// DeriveKind classifies a raw (code, label) pair the way the workbook
// loader does: a "+" in the code marks a computed row, and the label
// decides between total and margin.
func DeriveKind(code, label string) RowKind {
	if !strings.Contains(code, "+") {
		return KindDetail
	}
	if _, ok := MarginLabels[strings.TrimSpace(label)]; ok {
		return KindMargin
	}
	return KindTotal
}
