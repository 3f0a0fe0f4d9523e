package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/meridian-games/fecpl/internal/app"
	"github.com/meridian-games/fecpl/internal/export"
	"github.com/meridian-games/fecpl/internal/fec"
	"github.com/meridian-games/fecpl/internal/pl"
	"github.com/meridian-games/fecpl/internal/quality"
	"github.com/meridian-games/fecpl/internal/refdata"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: fecpl YYYYMM")
		os.Exit(2)
	}
	period, err := fec.ParsePeriod(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(context.Background(), cfg, logger, period); err != nil {
		logger.Error("close run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger, period fec.Period) error {
	logger.Info("starting monthly close", slog.String("period", period.String()))

	ledgers := make(map[string][]fec.LedgerLine)
	loader := fec.NewLoader(cfg.FECDir)
	for _, entity := range pl.Entities {
		lines, err := loader.Load(entity, period)
		if errors.Is(err, fec.ErrFileMissing) {
			logger.Warn("no FEC export, entity skipped", slog.String("entity", entity))
			continue
		}
		if err != nil {
			return err
		}
		ledgers[entity] = lines
		logger.Info("FEC loaded", slog.String("entity", entity), slog.Int("rows", len(lines)))
	}

	books := refdata.NewWorkbookLoader()
	mappings, err := books.LoadMappings(cfg.MappingFile, pl.Entities)
	if err != nil {
		return err
	}

	groupNames := make([]string, 0, len(pl.ReportingGroups))
	for _, group := range pl.ReportingGroups {
		groupNames = append(groupNames, group.Name)
	}
	structures, err := books.LoadStructures(cfg.MappingFile, groupNames)
	if err != nil {
		return err
	}

	// Allocation bases are a data-quality concern, not a structural one:
	// a missing workbook degrades to unallocated buckets.
	buSplits, err := books.LoadBUSplits(cfg.BUSplitFile, period)
	if err != nil {
		logger.Warn("revenue/COGS basis unavailable", slog.Any("error", err))
	}
	payrollSplits, err := books.LoadPayrollSplits(cfg.PayrollSplitFile, period)
	if err != nil {
		logger.Warn("payroll basis unavailable", slog.Any("error", err))
	}

	policy := pl.LeaseAdditive
	if cfg.LeasePolicyRetag() {
		policy = pl.LeaseRetag
	}

	pipeline := pl.NewPipeline(policy, logger)
	result, err := pipeline.Run(ctx, period, pl.Inputs{
		Ledgers:       ledgers,
		Mappings:      mappings,
		BUSplits:      buSplits,
		PayrollSplits: payrollSplits,
		Structures:    structures,
	})
	if err != nil {
		return err
	}

	report := quality.Run(ledgers, mappings, buSplits, payrollSplits, result)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path, err := export.Write(cfg.OutputDir, result, report)
	if err != nil {
		return err
	}

	logger.Info("close complete",
		slog.String("run_id", result.RunID.String()),
		slog.String("report", path),
		slog.Int("controls", len(report.Results)))
	return nil
}
