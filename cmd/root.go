// Package cmd implements the dndflow command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"dndflow/config"
	"dndflow/ctxlog"
	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/export"
	"dndflow/store"
	"dndflow/terminal"
	"dndflow/ui"
)

var version = "0.3.0"

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
}

func newRootCmd() *cobra.Command {
	var (
		global      globalOptions
		printFormat string
	)

	cmd := &cobra.Command{
		Use:   "dndflow",
		Short: "dndflow - drag-and-drop flow graph editor",
		Long: ui.Brand.Sprint("dndflow") + " - build flow graphs by dragging nodes onto a canvas\n" +
			ui.Subtle.Sprint("Drag a node type from the palette, click a node to rename it, nudge it with the arrow keys"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var format export.Format
			if printFormat != "" {
				f, err := export.ParseFormat(printFormat)
				if err != nil {
					return err
				}
				format = f
			}

			cfg, err := global.load()
			if err != nil {
				return err
			}
			// The screen belongs to tcell: logs only go to a file.
			logger, closeLog, err := openLogger(cfg.Log, nil)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = ctxlog.WithLogger(ctx, logger)

			s, err := runEditor(ctx, cfg)
			if err != nil {
				return err
			}
			if format == "" {
				return nil
			}
			out, err := export.Export(format, s.Snapshot().Graph())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.SetVersionTemplate("dndflow {{ .Version }}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	pf.StringVar(&global.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&global.logFormat, "log-format", "", "Log format: text, json")
	pf.StringVar(&global.logFile, "log-file", "", "Append logs to this file")
	cmd.Flags().StringVar(&printFormat, "print", "", "Print the graph on exit: json, mermaid, dot, plantuml, d2")

	cmd.AddCommand(
		serveCmd(&global),
		configCmd(&global),
		versionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		ui.Bad.Fprintf(cmd.ErrOrStderr(), "dndflow: %v\n", err)
		return err
	}
	return nil
}

// load reads the config file and applies the logging flags on top.
func (g *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.logFile != "" {
		cfg.Log.File = g.logFile
	}
	return cfg, nil
}

// openLogger builds the logger described by lc. Without a log file it writes
// to fallback, or nowhere when fallback is nil.
func openLogger(lc config.LogConfig, fallback io.Writer) (*slog.Logger, func(), error) {
	if lc.File == "" {
		if fallback == nil {
			return ctxlog.Discard(), func() {}, nil
		}
		return ctxlog.New(lc.Level, lc.Format, fallback), func() {}, nil
	}

	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return ctxlog.New(lc.Level, lc.Format, f), func() { _ = f.Close() }, nil
}

// newCore builds the shared store, id generator and editor options from cfg.
func newCore(cfg *config.Config, logger *slog.Logger) (*store.Store, *diagram.IDGenerator, editor.Options, error) {
	s, err := store.New(cfg.InitialGraph())
	if err != nil {
		return nil, nil, editor.Options{}, fmt.Errorf("invalid initial graph: %w", err)
	}
	ids := diagram.NewIDGenerator(cfg.IDs.Prefix, cfg.IDs.Seed)
	opts := editor.Options{
		DragFormat: cfg.Editor.DragFormat,
		NudgeStep:  cfg.Editor.NudgeStep,
		Logger:     logger,
	}
	return s, ids, opts, nil
}

// runEditor runs the terminal editor until the user quits and returns the
// store it edited.
func runEditor(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	logger := ctxlog.FromContext(ctx)

	s, ids, opts, err := newCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}

	logger.Info("Starting terminal editor", "nodes", len(s.Nodes()), "palette", cfg.Palette.Types)
	app := terminal.New(screen, editor.New(s, ids, opts), cfg.Palette.Types, logger)
	if err := app.Run(ctx); err != nil {
		return nil, err
	}
	logger.Info("Terminal editor closed", "version", s.Version())
	return s, nil
}
