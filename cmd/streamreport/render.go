package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/procsim/streamreport/internal/config"
	"github.com/procsim/streamreport/internal/database"
	"github.com/procsim/streamreport/internal/log"
	"github.com/procsim/streamreport/internal/pipeline"
	"github.com/procsim/streamreport/internal/report"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render snapshot documents as reports",
		Long: `Render reads snapshot documents (YAML or JSON) and writes a report
for every record they contain.

The default output is the fixed text layout with Overall, Composition,
and Distributions sections. Values are printed with four decimal
places; distribution points use scientific notation.

Examples:
  # Render a single snapshot file to stdout
  streamreport render snapshot.yaml

  # Render several files concurrently
  streamreport render run1.yaml run2.yaml run3.yaml

  # Output a Markdown report to a file
  streamreport render --markdown -o report.md snapshot.yaml

  # Persist rendered snapshots to the history database
  streamreport render --save snapshot.yaml

  # Use a custom configuration file
  streamreport render -c myconfig.yaml snapshot.yaml

Configuration file (.streamreport) example:
  units:
    mass: t
    temperature: degC
  output: text
  batch: 4
  save: false`,
		Args: cobra.ArbitraryArgs,
		RunE: runRenderCmd,
	}

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Batch rendering flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrently rendered files")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Save rendered snapshots to the history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .streamreport in current or home directory)")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags and the optional config file
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runRender(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and merges in
// the optional configuration file. Flag values take precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load unit overrides and defaults from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(cf)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the snapshot documents to render
	cfg.InputFiles = args

	return cfg, nil
}

// runRender executes the render.
func runRender(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting render",
		"files", cfg.InputFiles,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Determine output destination
	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(output, cfg)

	// Use batch rendering for multiple files if concurrency allows
	if len(cfg.InputFiles) > 1 && cfg.BatchSize > 1 {
		return runBatchRender(ctx, cfg, db, writer, logger)
	}

	// Single file or sequential rendering
	return runSequentialRender(ctx, cfg, db, writer, logger)
}

// openReportOutput opens the report destination: the named file, or
// stdout when path is empty. The returned closer is a no-op for stdout.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter builds the report writer for the configured format.
func newReportWriter(output *os.File, cfg *config.Config) report.Writer {
	if cfg.JSONReport {
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	}
	if cfg.MarkdownReport {
		return report.NewMarkdownWriter(output,
			report.WithMarkdownUnitOverrides(cfg.UnitOverrides))
	}
	return report.NewTextWriter(output,
		report.WithUnitOverrides(cfg.UnitOverrides))
}

// newRenderPipeline builds the per-file pipeline. The render step is
// included only when renderer is non-nil; batch mode renders after the
// concurrent phase to keep output ordered by input file.
func newRenderPipeline(db *database.HistoryDB, renderer report.Writer, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewIngestStep(logger),
		pipeline.NewValidateStep(),
		pipeline.NewSummarizeStep(),
	)
	if db != nil {
		p.AddStep(pipeline.NewPersistStep(db, logger))
	}
	if renderer != nil {
		p.AddStep(pipeline.NewRenderStep(renderer))
	}
	return p
}

// runSequentialRender renders input files one at a time.
func runSequentialRender(ctx context.Context, cfg *config.Config, db *database.HistoryDB, writer report.Writer, logger *slog.Logger) error {
	var failed int
	for _, path := range cfg.InputFiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := newRenderPipeline(db, writer, logger)

		job := pipeline.NewJob(path)
		startTime := time.Now()

		if err := p.Execute(ctx, job); err != nil {
			logger.Error("render failed", "path", path, "error", err)
			fmt.Fprintf(os.Stderr, "render error for %s: %v\n", path, err)
			failed++
			continue
		}

		logger.Debug("file rendered",
			"path", path,
			"snapshots", len(job.Snapshots),
			"bytes", job.BytesWritten,
			"elapsed", time.Since(startTime).Round(time.Millisecond),
		)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(cfg.InputFiles))
	}
	return nil
}

// runBatchRender renders multiple files concurrently.
// The concurrent phase stops before the render step so that report
// output stays ordered by input file; rendering happens afterwards,
// sequentially, from the decoded jobs.
func runBatchRender(ctx context.Context, cfg *config.Config, db *database.HistoryDB, writer report.Writer, logger *slog.Logger) error {
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newRenderPipeline(db, nil, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	jobs, err := bp.ProcessBatch(ctx, cfg.InputFiles)
	if err != nil {
		return err
	}

	var failed int
	for _, job := range jobs {
		if job.Err != nil {
			fmt.Fprintf(os.Stderr, "render error for %s: %v\n", job.Path, job.Err)
			failed++
			continue
		}

		for _, snapshot := range job.Snapshots {
			n, werr := writer.Write(snapshot)
			job.BytesWritten += n
			if werr != nil {
				fmt.Fprintf(os.Stderr, "render error for %s: %v\n", job.Path, werr)
				failed++
				break
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(cfg.InputFiles))
	}
	return nil
}
