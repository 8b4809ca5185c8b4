// Package main is the entry point for the flight demand TUI. Without a
// subcommand it runs the Bubble Tea dashboard; subcommands expose the same
// pipeline for scripts and cron jobs.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/flight-demand-tui/internal/app"
	"github.com/j-veylop/flight-demand-tui/internal/config"
	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/scheduler"
	"github.com/j-veylop/flight-demand-tui/internal/services"
	"github.com/j-veylop/flight-demand-tui/internal/ui/tabs/history"
	"github.com/j-veylop/flight-demand-tui/internal/ui/tabs/info"
	"github.com/j-veylop/flight-demand-tui/internal/ui/tabs/insights"
	"github.com/j-veylop/flight-demand-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/flight-demand-tui/internal/ui/tabs/prices"
	"github.com/j-veylop/flight-demand-tui/internal/ui/tabs/routes"
	"github.com/j-veylop/flight-demand-tui/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	city string
	file string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "fdt",
		Short: "Flight market demand analysis dashboard",
		Long: `fdt fetches departures for an Australian city from AviationStack (or
generates realistic mock flights), cleans them and reports popular routes,
price trends, seasonal patterns and market opportunities.

Run without a subcommand to open the interactive dashboard.

Keyboard Shortcuts:
  1-6             Switch tabs (Overview, Routes, Prices, Insights, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  r               Refresh analysis
  c               Analyze the next city
  p               Write a PDF report
  x / e           Export XLSX / CSV
  ?               Toggle help
  q, Ctrl+C       Quit`,
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVarP(&opts.city, "city", "c", "", "city name or IATA code (default from DEFAULT_CITY)")
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "analyze a flight CSV instead of fetching")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
		newGenerateCmd(opts),
		newScheduleCmd(opts),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, points logging at w and starts the services.
// One-shot commands never watch files.
func setup(w io.Writer, opts *options) (*config.Config, *services.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(w, cfg.LogLevel, cfg.LogFormat)

	cfg.WatchPath = ""
	if opts.city != "" {
		cfg.DefaultCity = opts.city
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return cfg, mgr, nil
}

func closeManager(mgr *services.Manager) {
	if err := mgr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", err)
	}
}

// openLogFile returns the TUI log destination. Logging to the terminal
// would corrupt the alt screen, so logs are dropped when no file is set.
func openLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runTUI(opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.Setup(logFile, cfg.LogLevel, cfg.LogFormat)

	if opts.city != "" {
		cfg.DefaultCity = opts.city
	}
	if opts.file != "" {
		// Keep reanalyzing the file while it is edited.
		cfg.WatchPath = opts.file
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer closeManager(svcManager)

	if cfg.RefreshSchedule != "" {
		sched, err := scheduler.New(cfg.RefreshSchedule, svcManager, svcManager.Airports(), cfg.ReportDir, "")
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("scheduled refresh enabled", "spec", cfg.RefreshSchedule, "next", sched.Next())
	}

	model := app.NewModel(svcManager)
	if opts.file != "" {
		model.LoadFileOnStart(opts.file)
	}

	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state),
		routes.New(state, svcManager.Airports()),
		prices.New(state),
		insights.New(state),
		history.New(state, svcManager),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
