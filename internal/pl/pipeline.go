package pl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-games/fecpl/internal/fec"
	"github.com/meridian-games/fecpl/internal/refdata"
)

// ErrNoData indicates that no entity produced any mapped row for the
// period: there is nothing to report and the run aborts.
var ErrNoData = errors.New("pl: no entity has data for the period")

// Inputs carries everything the core consumes. The loaders own the file
// formats; the pipeline only sees tabular data.
type Inputs struct {
	Ledgers       map[string][]fec.LedgerLine
	Mappings      map[string]refdata.MappingTable
	BUSplits      []refdata.BUSplitRow
	PayrollSplits []refdata.PayrollSplitRow
	Structures    map[string][]refdata.StructureRow
}

// Result is one pipeline run: per-entity detail vectors plus one
// consolidated statement per reporting group.
type Result struct {
	RunID      uuid.UUID
	Period     fec.Period
	Details    map[string]EntityResult
	Statements map[string]*GroupStatement
	Unmapped   map[string][]string
	Warnings   []string
}

// Pipeline runs the monthly transformation for all entities. Runs are
// stateless and idempotent: identical inputs produce identical outputs.
type Pipeline struct {
	policy LeasePolicy
	logger *slog.Logger
}

// NewPipeline constructs a pipeline with the given lease policy.
func NewPipeline(policy LeasePolicy, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{policy: policy, logger: logger}
}

// Run executes the two-phase pipeline. Phase A nets and maps every entity
// independently; the payroll group totals form the barrier between the
// phases, since an entity's allocation needs its sibling's mapped bucket.
// Phase B runs the allocation chain and aggregation per entity, then each
// reporting group's structure is resolved and consolidated.
func (p *Pipeline) Run(ctx context.Context, period fec.Period, in Inputs) (*Result, error) {
	res := &Result{
		RunID:      uuid.New(),
		Period:     period,
		Details:    make(map[string]EntityResult),
		Statements: make(map[string]*GroupStatement),
		Unmapped:   make(map[string][]string),
	}

	var mu sync.Mutex
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		p.logger.Warn(msg, slog.String("run_id", res.RunID.String()), slog.String("period", period.String()))
		mu.Lock()
		res.Warnings = append(res.Warnings, msg)
		mu.Unlock()
	}

	// Phase A: net + map each entity with data.
	mapped := make(map[string][]MappedRow)
	groupA, _ := errgroup.WithContext(ctx)
	for _, entity := range Entities {
		lines, ok := in.Ledgers[entity]
		if !ok || len(lines) == 0 {
			warn("%s: no ledger rows for %s, entity excluded", entity, period)
			continue
		}
		table, ok := in.Mappings[entity]
		if !ok {
			warn("%s: no mapping table, entity skipped", entity)
			continue
		}
		groupA.Go(func() error {
			balances := fec.NetByAccount(lines, period)
			if len(balances) == 0 {
				warn("%s: no eligible ledger rows in %s, entity excluded", entity, period)
				return nil
			}
			rows, unmapped := ApplyMapping(balances, table)
			if len(unmapped) > 0 {
				warn("%s: unmapped class-6/7 accounts excluded from P&L: %v", entity, unmapped)
			}
			mu.Lock()
			mapped[entity] = rows
			res.Unmapped[entity] = unmapped
			mu.Unlock()
			return nil
		})
	}
	if err := groupA.Wait(); err != nil {
		return nil, err
	}
	if len(mapped) == 0 {
		return nil, ErrNoData
	}

	// Barrier: group payroll totals need every member's mapped bucket.
	groupTotals := make(map[string]float64, len(PayrollGroups))
	for group, members := range PayrollGroups {
		groupTotals[group] = PayrollGroupTotal(mapped, members)
	}

	// Phase B: allocation chain + aggregation per entity.
	groupB, _ := errgroup.WithContext(ctx)
	for entity, rows := range mapped {
		groupB.Go(func() error {
			rows, warnings := AllocateRevenueCOGS(rows, in.BUSplits, entity)
			for _, w := range warnings {
				warn("%s", w)
			}

			payrollGroup, _, ok := PayrollGroupOf(entity)
			if !ok {
				warn("%s: entity belongs to no payroll group, bucket left unallocated", entity)
			} else {
				rows, warnings = AllocatePayroll(rows, in.PayrollSplits, payrollGroup, groupTotals[payrollGroup])
				for _, w := range warnings {
					warn("%s: %s", entity, w)
				}
			}

			rows = ReclassifyLeases(rows, p.policy)

			result := Aggregate(entity, rows)
			mu.Lock()
			res.Details[entity] = result
			mu.Unlock()
			return nil
		})
	}
	if err := groupB.Wait(); err != nil {
		return nil, err
	}

	// Consolidated statements per reporting group.
	for _, group := range ReportingGroups {
		rawStructure, ok := in.Structures[group.Name]
		if !ok {
			warn("%s: no structure declared, group skipped", group.Name)
			continue
		}
		structure, err := ResolveStructure(rawStructure)
		if err != nil {
			return nil, fmt.Errorf("structure %s: %w", group.Name, err)
		}
		var results []EntityResult
		for _, member := range group.Members {
			if detail, ok := res.Details[member]; ok {
				results = append(results, detail)
			}
		}
		if len(results) == 0 {
			warn("%s: no member entity has data, group skipped", group.Name)
			continue
		}
		res.Statements[group.Name] = Consolidate(group.Name, structure, results)
	}

	p.logger.Info("pipeline run complete",
		slog.String("run_id", res.RunID.String()),
		slog.String("period", period.String()),
		slog.Int("entities", len(res.Details)),
		slog.Int("statements", len(res.Statements)),
		slog.Int("warnings", len(res.Warnings)))

	return res, nil
}
