package pl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-games/fecpl/internal/refdata"
)

// ErrUnknownComponent indicates a total/margin formula referencing a code
// that was never declared, neither as a detail line nor as an earlier
// computed row. The structure is malformed and cannot be evaluated.
var ErrUnknownComponent = errors.New("pl: structure component not declared")

// ResolvedRow is one structure row with its formula parsed. Components is
// nil for detail rows; for computed rows each component is either a detail
// code or the code of an earlier computed row.
type ResolvedRow struct {
	Code       string
	Label      string
	Kind       refdata.RowKind
	Components []string
}

// Computed reports whether the row is a total or margin.
func (r ResolvedRow) Computed() bool {
	return r.Kind == refdata.KindTotal || r.Kind == refdata.KindMargin
}

// Structure is a resolved declarative P&L layout for one reporting group.
// Rows are in declaration order, which is also a valid evaluation order:
// resolution guarantees every component precedes its reference.
type Structure struct {
	Rows   []ResolvedRow
	Labels []string
}

// ResolveStructure parses the declarative rows once, up front. Formulas
// are split on "+" and every component is checked against the codes
// declared so far, failing fast on forward or dangling references. Because
// references may only point backwards, the dependency graph is acyclic by
// construction. Labels are deduplicated preserving first occurrence.
func ResolveStructure(rows []refdata.StructureRow) (*Structure, error) {
	declared := make(map[string]struct{}, len(rows))
	seenLabels := make(map[string]struct{}, len(rows))

	st := &Structure{Rows: make([]ResolvedRow, 0, len(rows))}
	for _, row := range rows {
		resolved := ResolvedRow{Code: row.Code, Label: row.Label, Kind: row.Kind}
		if resolved.Computed() {
			for _, component := range strings.Split(row.Code, "+") {
				component = strings.TrimSpace(component)
				if component == "" {
					continue
				}
				if _, ok := declared[component]; !ok {
					return nil, fmt.Errorf("%w: %q in row %q", ErrUnknownComponent, component, row.Label)
				}
				resolved.Components = append(resolved.Components, component)
			}
		}
		declared[row.Code] = struct{}{}
		st.Rows = append(st.Rows, resolved)
		if _, dup := seenLabels[row.Label]; !dup {
			seenLabels[row.Label] = struct{}{}
			st.Labels = append(st.Labels, row.Label)
		}
	}
	return st, nil
}
