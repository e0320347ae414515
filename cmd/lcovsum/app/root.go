package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zjy-dev/lcovsum/internal/config"
	"github.com/zjy-dev/lcovsum/internal/lcov"
	"github.com/zjy-dev/lcovsum/internal/loader"
	"github.com/zjy-dev/lcovsum/internal/logger"
	"github.com/zjy-dev/lcovsum/internal/report"
)

// NewRootCommand creates the root command for the lcovsum tool.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

// newRootCommand creates the root command reading traces from and writing
// config files to fs.
func newRootCommand(fs afero.Fs) *cobra.Command {
	var (
		configPath  string
		diffPath    string
		logLevel    string
		onOrphan    string
		summaryOnly bool
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "lcovsum <lcov-file>",
		Short: "Summarize and compare LCOV coverage traces.",
		Long: `lcovsum prints line and function coverage of an LCOV trace as a table.

Modes:
  lcovsum run.info                    per-file table followed by the total
  lcovsum -s run.info                 total only
  lcovsum -d new.info run.info        per-file comparison and total difference
  lcovsum -s -d new.info run.info     total difference only

Configuration:
  Defaults are read from lcovsum.yaml in the current directory or in
  configs/ (see "lcovsum init"). LCOVSUM_* environment variables override
  the file, command line flags override both.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("on-orphan") {
				cfg.OnOrphan = onOrphan
			}
			if noColor {
				cfg.Color = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			useColor := cfg.Color && !color.NoColor
			logger.Init(cfg.LogLevel)
			logger.SetLevel(cfg.LogLevel)
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetColorEnable(useColor)

			return runReport(cmd.Context(), fs, cmd.OutOrStdout(), cfg, reportRequest{
				path:        args[0],
				diffPath:    diffPath,
				summaryOnly: summaryOnly,
				color:       useColor,
			})
		},
	}

	cmd.Flags().BoolVarP(&summaryOnly, "summary", "s", false, "Only show the total")
	cmd.Flags().StringVarP(&diffPath, "diff", "d", "", "Compare against a second LCOV trace")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default: lcovsum.yaml in . or configs/)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&onOrphan, "on-orphan", "skip", "Hit records for undeclared functions: skip or abort")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(NewInitCommand(fs))

	return cmd
}

type reportRequest struct {
	path        string
	diffPath    string
	summaryOnly bool
	color       bool
}

// runReport loads the traces and renders the requested table. Output is
// buffered so nothing is written when loading or rendering fails.
func runReport(ctx context.Context, fs afero.Fs, out io.Writer, cfg *config.Config, req reportRequest) error {
	l := loader.New(fs, lcov.ParseOptions{OnOrphan: cfg.OrphanPolicy()})

	var buf bytes.Buffer
	r := report.NewTableRenderer(&buf, report.Options{
		Color:  req.color,
		Low:    cfg.Thresholds.Low,
		High:   cfg.Thresholds.High,
		TrimAt: cfg.TrimAt,
	})

	if req.diffPath != "" {
		base, other, err := l.LoadPair(ctx, req.path, req.diffPath)
		if err != nil {
			return err
		}
		if err := r.Compare(base, other, !req.summaryOnly); err != nil {
			return fmt.Errorf("failed to render comparison: %w", err)
		}
	} else {
		doc, err := l.Load(req.path)
		if err != nil {
			return err
		}
		render := r.Files
		if req.summaryOnly {
			render = r.Summary
		}
		if err := render(doc); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}

	_, err := buf.WriteTo(out)
	return err
}
