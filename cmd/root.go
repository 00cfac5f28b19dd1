// Package cmd provides the root command and CLI setup for sigcov.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/adapter"
	"github.com/mouse-blink/sigcov/internal/config"
	"github.com/mouse-blink/sigcov/internal/controller"
	"github.com/mouse-blink/sigcov/internal/domain"
	m "github.com/mouse-blink/sigcov/internal/model"
)

var logLevel = new(slog.LevelVar)
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

var fsAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var reportStore adapter.ReportStore
var frontEnds *adapter.FrontEnds
var orchestrator domain.Orchestrator
var workflow domain.Workflow
var ui controller.UI

// cfg holds sigcov.toml, loaded before any subcommand runs.
var cfg = config.Default()

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	reportStore = adapter.NewReportStore(fsAdapter)
	frontEnds = adapter.NewFrontEnds(
		adapter.NewLocalGoFileAdapter(adapter.WithTypeCheck(cfg.Instrument.TypeCheck)),
		adapter.NewLocalCFileAdapter(cfg.Instrument.IncludePaths),
	)
	orchestrator = domain.NewOrchestrator(fsAdapter, testAdapter, frontEnds, logger)
	workflow = domain.NewWorkflow(
		fsAdapter,
		frontEnds,
		reportStore,
		ui,
		orchestrator,
		logger,
	)
}

var configFlag string
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigcov",
		Short: "Source instrumentation code coverage for Go, C and C++",
		Long: `sigcov measures code coverage by rewriting sources: every region of
straight-line code gets a counter, the instrumented program dumps its
counters on exit, and the dumps are turned into gcov-style reports.

Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./pkg    scan multiple directories`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return configure()
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to "+config.FileName+" (default: searched upwards from the working directory)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	return cmd
}

// configure loads the configuration and applies it to the front ends.
func configure() error {
	if verboseFlag {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}

	var (
		loaded config.Config
		err    error
	)

	if configFlag != "" {
		loaded, err = config.Load(configFlag)
	} else {
		loaded, err = config.Discover(".")
	}

	if err != nil {
		return err
	}

	cfg = loaded
	if cfg.Path != "" {
		logger.Debug("loaded configuration", slog.String("path", cfg.Path))
	}

	frontEnds.Go = adapter.NewLocalGoFileAdapter(adapter.WithTypeCheck(cfg.Instrument.TypeCheck))
	frontEnds.C = adapter.NewLocalCFileAdapter(cfg.Instrument.IncludePaths)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"./..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// option returns the flag value when the user set the flag, the
// configured value otherwise.
func option[T any](cmd *cobra.Command, flag string, flagValue, configValue T) T {
	if cmd.Flags().Changed(flag) {
		return flagValue
	}

	return configValue
}

// jumpPolicy merges the [jumps] section with the --calls flag.
func jumpPolicy(cmd *cobra.Command, calls string) (domain.JumpPolicy, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return domain.JumpPolicy{}, err
	}

	if cmd.Flags().Changed("calls") {
		mode, err := domain.ParseCallMode(calls)
		if err != nil {
			return domain.JumpPolicy{}, err
		}

		policy.Calls = mode
	}

	return policy, nil
}
