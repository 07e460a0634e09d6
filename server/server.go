package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	"dndflow/config"
	"dndflow/ctxlog"
	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/store"
)

const shutdownTimeout = 5 * time.Second

// Server serves the editor over socket.io.
type Server struct {
	cfg    config.ServerConfig
	io     *socket.Server
	hub    *Hub
	logger *slog.Logger
}

// New creates a server for s. Nothing listens until ListenAndServe.
func New(s *store.Store, ids *diagram.IDGenerator, cfg config.ServerConfig, opts editor.Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = ctxlog.Discard()
	}
	io := socket.NewServer(nil, nil)
	srv := &Server{
		cfg:    cfg,
		io:     io,
		hub:    NewHub(s, ids, broadcaster{io}, opts, logger),
		logger: logger,
	}
	io.On("connection", srv.onConnection)
	return srv
}

// broadcaster emits to every connected client.
type broadcaster struct {
	io *socket.Server
}

func (b broadcaster) Emit(ev string, args ...any) error {
	b.io.Emit(ev, args...)
	return nil
}

func (srv *Server) onConnection(clients ...any) {
	client, ok := clients[0].(*socket.Socket)
	if !ok {
		srv.logger.Error("Unexpected connection argument", "type", fmt.Sprintf("%T", clients[0]))
		return
	}
	id := string(client.Id())

	if err := srv.hub.Do(func() { srv.hub.Connect(id, client) }); err != nil {
		client.Disconnect(true)
		return
	}

	for _, ev := range ClientEvents {
		client.On(ev, func(args ...any) {
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			// Dispatch reports failures to the client itself.
			_ = srv.hub.Do(func() { _ = srv.hub.Dispatch(id, ev, payload) })
		})
	}

	client.On("disconnect", func(reason ...any) {
		srv.logger.Debug("Disconnect", "client", id, "reason", reason)
		_ = srv.hub.Do(func() { srv.hub.Disconnect(id) })
	})
}

func (srv *Server) serverOptions() *socket.ServerOptions {
	opts := socket.DefaultServerOptions()
	opts.SetPath(strings.TrimSuffix(srv.cfg.Path, "/"))
	opts.SetServeClient(false)
	if srv.cfg.CORSOrigin != "" {
		opts.SetCors(&types.Cors{
			Origin:      srv.cfg.CORSOrigin,
			Credentials: true,
		})
	}
	return opts
}

// ListenAndServe runs the hub and the HTTP listener until ctx is cancelled or
// the listener fails.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle(srv.cfg.Path, srv.io.ServeHandler(srv.serverOptions()))
	httpSrv := &http.Server{
		Addr:              srv.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hubDone := make(chan struct{})
	go func() {
		srv.hub.Run(ctx)
		close(hubDone)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	srv.logger.Info("Listening", "addr", srv.cfg.Addr, "path", srv.cfg.Path)

	select {
	case err := <-errCh:
		cancel()
		<-hubDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to listen on %s: %w", srv.cfg.Addr, err)
	case <-ctx.Done():
	}

	srv.logger.Info("Shutting down")
	<-hubDone
	srv.io.Close(nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
