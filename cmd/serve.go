package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dndflow/config"
	"dndflow/ctxlog"
	"dndflow/server"
	"dndflow/ui"
)

func serveCmd(global *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor to browser clients over socket.io",
		Long: `Run the editor core behind a socket.io endpoint. Every connected
client gets its own edit panel state; all clients edit one shared graph
and receive it after every change.

  dndflow serve                # Listen on server.addr (default :3000)
  dndflow serve --addr :8080   # Listen on another address`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, closeLog, err := openLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = ctxlog.WithLogger(ctx, logger)

			ui.Banner(cmd.OutOrStdout(), "serve")
			fmt.Fprintf(cmd.OutOrStdout(), "  Listening on %s%s\n\n", ui.Brand.Sprint(cfg.Server.Addr), cfg.Server.Path)
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger := ctxlog.FromContext(ctx)

	s, ids, opts, err := newCore(cfg, logger)
	if err != nil {
		return err
	}
	return server.New(s, ids, cfg.Server, opts, logger).ListenAndServe(ctx)
}
