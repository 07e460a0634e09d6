package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"dndflow/config"
	"dndflow/ui"
)

func configCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg, global.path())
			return nil
		},
	}

	cmd.AddCommand(configInitCmd(global), configPathCmd(global))
	return cmd
}

func configInitCmd(global *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := global.path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(config.Default(), path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Wrote %s\n", ui.Good.Sprint("✓"), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func configPathCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), global.path())
		},
	}
}

func (g *globalOptions) path() string {
	if g.configPath != "" {
		return g.configPath
	}
	return config.DefaultPath()
}

func printConfig(w io.Writer, cfg *config.Config, path string) {
	ui.Banner(w, "config")
	fmt.Fprintf(w, "  %s %s\n\n", ui.Subtle.Sprint("file"), path)

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	ui.Section(w, "ids")
	ui.KeyValues(w, [][2]string{
		{"prefix", ui.Quote(cfg.IDs.Prefix)},
		{"seed", strconv.FormatUint(cfg.IDs.Seed, 10)},
	})

	ui.Section(w, "editor")
	ui.KeyValues(w, [][2]string{
		{"nudge_step", f(cfg.Editor.NudgeStep)},
		{"drag_format", ui.Quote(cfg.Editor.DragFormat)},
	})
	nodes := make([]string, 0, len(cfg.Editor.InitialNodes))
	for _, n := range cfg.InitialGraph().Nodes {
		nodes = append(nodes, fmt.Sprintf("%s %s %s at (%s, %s)",
			ui.Brand.Sprint(n.ID), n.Type, ui.Quote(n.Data.Label), f(n.Position.X), f(n.Position.Y)))
	}
	ui.List(w, nodes)

	ui.Section(w, "palette")
	ui.List(w, cfg.Palette.Types)

	ui.Section(w, "server")
	ui.KeyValues(w, [][2]string{
		{"addr", ui.Quote(cfg.Server.Addr)},
		{"path", ui.Quote(cfg.Server.Path)},
		{"cors_origin", ui.Quote(cfg.Server.CORSOrigin)},
	})

	ui.Section(w, "log")
	file := cfg.Log.File
	if file == "" {
		file = ui.Subtle.Sprint("(none)")
	}
	ui.KeyValues(w, [][2]string{
		{"level", cfg.Log.Level},
		{"format", cfg.Log.Format},
		{"file", file},
	})
}
