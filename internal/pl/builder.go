package pl

import "math"

// Series is one entity's evaluated statement, keyed by structure label.
type Series struct {
	Entity string
	Values map[string]float64
}

// StatementLine is one output row of a consolidated statement.
type StatementLine struct {
	Label  string
	Amount float64
}

// GroupStatement is the consolidated P&L for one reporting group.
// Computed marks the labels carrying a total or margin row, for styling.
type GroupStatement struct {
	Group    string
	Labels   []string
	Entities []Series
	Total    map[string]float64
	Computed map[string]struct{}
}

// Lines returns the Total column in canonical label order.
func (g *GroupStatement) Lines() []StatementLine {
	lines := make([]StatementLine, 0, len(g.Labels))
	for _, label := range g.Labels {
		lines = append(lines, StatementLine{Label: label, Amount: g.Total[label]})
	}
	return lines
}

// BuildEntitySeries walks the resolved structure over one entity's detail
// vector. Detail rows read the vector (missing codes count as zero) and
// charge codes are forced negative regardless of the upstream sign;
// computed rows sum the already-evaluated values of their components.
func BuildEntitySeries(st *Structure, result EntityResult) Series {
	values := make(map[string]float64, len(st.Rows))
	byCode := make(map[string]float64, len(st.Rows))

	for _, row := range st.Rows {
		var val float64
		if row.Computed() {
			for _, component := range row.Components {
				val += byCode[component]
			}
		} else {
			val = result.Lines[row.Code]
			if _, charge := ChargeCodes[row.Code]; charge {
				val = -math.Abs(val)
			}
		}
		values[row.Label] = val
		byCode[row.Code] = val
	}
	return Series{Entity: result.Entity, Values: values}
}

// Consolidate evaluates the structure per entity, sums the columns, then
// re-derives every computed row on the summed column. Totals and margins
// are never taken as the naive sum of per-entity computed values: once
// labels repeat or entities diverge, summed margins double count, so only
// the summed detail rows are trusted and the structure is walked again.
func Consolidate(group string, st *Structure, results []EntityResult) *GroupStatement {
	statement := &GroupStatement{
		Group:    group,
		Labels:   append([]string(nil), st.Labels...),
		Total:    make(map[string]float64, len(st.Labels)),
		Computed: make(map[string]struct{}),
	}
	for _, row := range st.Rows {
		if row.Computed() {
			statement.Computed[row.Label] = struct{}{}
		}
	}

	for _, result := range results {
		series := BuildEntitySeries(st, result)
		statement.Entities = append(statement.Entities, series)
		for label, val := range series.Values {
			statement.Total[label] += val
		}
	}

	byCode := make(map[string]float64, len(st.Rows))
	for _, row := range st.Rows {
		if row.Computed() {
			var val float64
			for _, component := range row.Components {
				val += byCode[component]
			}
			statement.Total[row.Label] = val
			byCode[row.Code] = val
			continue
		}
		byCode[row.Code] = statement.Total[row.Label]
	}

	return statement
}
