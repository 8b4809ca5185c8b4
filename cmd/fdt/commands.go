package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/dataset"
	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
	"github.com/j-veylop/flight-demand-tui/internal/report"
	"github.com/j-veylop/flight-demand-tui/internal/scheduler"
	"github.com/j-veylop/flight-demand-tui/internal/services"
	"github.com/j-veylop/flight-demand-tui/internal/services/flights"
	"github.com/j-veylop/flight-demand-tui/internal/services/narrative"
	"github.com/j-veylop/flight-demand-tui/internal/version"
	"github.com/j-veylop/flight-demand-tui/internal/warehouse"
)

const commandTimeout = 5 * time.Minute

var errNoPostgres = errors.New("POSTGRES_DSN is not set")

// analysisOutput is the JSON printed by analyze.
type analysisOutput struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Insights    *models.InsightsDocument `json:"insights"`
	Narrative   narrative.Narrative      `json:"narrative"`
	City        string                   `json:"city"`
	Source      models.DataSource        `json:"source"`
	RawRows     int                      `json:"raw_rows"`
}

// analyzeSnapshot runs the pipeline on --file when given and fetches for
// the configured city otherwise.
func analyzeSnapshot(ctx context.Context, mgr *services.Manager, opts *options) (*services.Snapshot, error) {
	if opts.file != "" {
		return mgr.LoadFile(ctx, opts.file)
	}
	return mgr.Refresh(ctx, opts.city)
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze flights and print insights as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, mgr, err := setup(cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			snap, err := analyzeSnapshot(ctx, mgr, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analysisOutput{
				GeneratedAt: snap.UpdatedAt,
				Insights:    snap.Insights,
				Narrative:   snap.Narrative,
				City:        snap.City,
				Source:      snap.Source,
				RawRows:     snap.RawRows,
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}
	return nil
}

func newReportCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF market report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mgr, err := setup(cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			snap, err := analyzeSnapshot(ctx, mgr, opts)
			if err != nil {
				return err
			}
			path, err := outputFile(orDefault(outDir, cfg.ReportDir), snap, "pdf")
			if err != nil {
				return err
			}
			if err := report.WritePDFFile(path, snap.ReportData(mgr.Airports())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default REPORT_DIR)")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:       "export {csv|xlsx|postgres}",
		Short:     "Export cleaned flights and insights",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"csv", "xlsx", "postgres"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mgr, err := setup(cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			format := args[0]
			if format == "postgres" && cfg.PostgresDSN == "" {
				return errNoPostgres
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			snap, err := analyzeSnapshot(ctx, mgr, opts)
			if err != nil {
				return err
			}

			if format == "postgres" {
				return exportPostgres(ctx, cmd.OutOrStdout(), cfg.PostgresDSN, snap)
			}

			path, err := outputFile(orDefault(outDir, cfg.ReportDir), snap, format)
			if err != nil {
				return err
			}
			if format == "csv" {
				err = dataset.WriteCSVFile(path, snap.Cleaned)
			} else {
				err = report.WriteXLSXFile(path, snap.ReportData(mgr.Airports()))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for file formats (default REPORT_DIR)")
	return cmd
}

func exportPostgres(ctx context.Context, w io.Writer, dsn string, snap *services.Snapshot) error {
	pg, err := warehouse.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer pg.Close()

	runID := ""
	if snap.Run != nil {
		runID = snap.Run.ID
	}

	nFlights, err := pg.ExportFlights(ctx, runID, snap.Cleaned)
	if err != nil {
		return err
	}
	nOpps, err := pg.ExportOpportunities(ctx, runID, snap.Insights.MarketOpportunities)
	if err != nil {
		return err
	}
	logger.Info("exported to postgres", "run", runID, "flights", nFlights, "opportunities", nOpps)
	fmt.Fprintf(w, "exported %d flights and %d opportunities (run %s)\n", nFlights, nOpps, runID)
	return nil
}

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		seed  int64
		days  int
		out   string
		start string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a mock flight CSV for a city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

			airports, err := config.LoadAirports(cfg.AirportsPath)
			if err != nil {
				return err
			}
			city := orDefault(opts.city, cfg.DefaultCity)
			code, ok := airports.Resolve(city)
			if !ok {
				return fmt.Errorf("unknown city %q", city)
			}

			from := time.Now().UTC()
			if start != "" {
				if from, err = dateparse.ParseIn(start, time.UTC); err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
			}
			if days <= 0 {
				days = cfg.DateRangeDays
			}

			gen := flights.NewGenerator(airports, rand.New(rand.NewSource(seed)))
			table := gen.Generate(code, from, days)

			if out == "" {
				return dataset.WriteCSV(cmd.OutOrStdout(), table)
			}
			if err := dataset.WriteCSVFile(out, table); err != nil {
				return err
			}
			logger.Info("mock flights written", "path", out, "origin", code, "rows", table.Len())
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&days, "days", 0, "number of days (default DATE_RANGE_DAYS)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&start, "start", "", "first flight date (default today)")
	return cmd
}

func newScheduleCmd(opts *options) *cobra.Command {
	var (
		spec string
		now  bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Refresh and write reports on a cron schedule",
		Long: `schedule keeps running, refreshing the analysis and writing a PDF report
each time the cron spec fires. Specs have a seconds field, for example
"0 0 6 * * *" runs at 06:00 every day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mgr, err := setup(cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			sched, err := scheduler.New(orDefault(spec, cfg.RefreshSchedule), mgr, mgr.Airports(), cfg.ReportDir, opts.city)
			if err != nil {
				return err
			}

			if now {
				ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
				path, err := sched.RunOnce(ctx)
				cancel()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			sched.Start()
			defer sched.Stop()
			fmt.Fprintf(cmd.OutOrStdout(), "next run at %s\n", sched.Next().Format(time.RFC3339))

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			<-sigChan

			logger.Info("scheduler stopping")
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "spec", "", "cron spec (default REFRESH_SCHEDULE)")
	cmd.Flags().BoolVar(&now, "now", false, "run once immediately before waiting")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

func outputFile(dir string, snap *services.Snapshot, ext string) (string, error) {
	dir = orDefault(dir, ".")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, report.FileName(snap.City, snap.UpdatedAt, ext)), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
