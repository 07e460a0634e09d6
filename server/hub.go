// Package server exposes the editor core over socket.io so a browser-side
// rendering engine can drive it. Every connected client gets its own edit
// state and viewport; the graph store and id generator are shared.
package server

import (
	"context"
	"errors"
	"log/slog"

	"dndflow/ctxlog"
	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/store"
	"dndflow/viewport"
)

// Events sent to clients.
const (
	EventGraph    = "graph"
	EventState    = "state"
	EventExported = "exported"
	EventError    = "error"
)

// ErrClosed is returned by Do once the hub has stopped.
var ErrClosed = errors.New("hub closed")

// Emitter sends an event to one client or to all of them.
type Emitter interface {
	Emit(ev string, args ...any) error
}

// Hub owns the shared store and the per-client sessions. All of its state is
// touched from the goroutine running Run; socket callbacks hand work over
// with Do.
type Hub struct {
	store     *store.Store
	ids       *diagram.IDGenerator
	opts      editor.Options
	logger    *slog.Logger
	broadcast Emitter

	ops  chan func()
	done chan struct{}

	sessions    map[string]*session
	unsubscribe func()
}

// session is one connected client.
type session struct {
	id        string
	out       Emitter
	editor    *editor.Editor
	transform viewport.Transform
}

// Project implements viewport.Instance with the client's last reported
// viewport.
func (s *session) Project(p diagram.Point) diagram.Point {
	return s.transform.Project(p)
}

// NewHub creates a hub over s. Every store mutation is broadcast as a graph
// event through broadcast.
func NewHub(s *store.Store, ids *diagram.IDGenerator, broadcast Emitter, opts editor.Options, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = ctxlog.Discard()
	}
	h := &Hub{
		store:     s,
		ids:       ids,
		opts:      opts,
		logger:    logger,
		broadcast: broadcast,
		ops:       make(chan func()),
		done:      make(chan struct{}),
		sessions:  make(map[string]*session),
	}
	h.unsubscribe = s.Subscribe(func(snap store.Snapshot) {
		if err := h.broadcast.Emit(EventGraph, snap); err != nil {
			h.logger.Warn("Failed to broadcast graph", "version", snap.Version, "error", err)
		}
	})
	return h
}

// Run executes submitted work until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.unsubscribe()

	h.logger.Debug("Hub started")
	defer h.logger.Debug("Hub stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-h.ops:
			fn()
		}
	}
}

// Do runs fn on the hub goroutine and waits for it to finish.
func (h *Hub) Do(fn func()) error {
	finished := make(chan struct{})
	select {
	case h.ops <- func() { fn(); close(finished) }:
	case <-h.done:
		return ErrClosed
	}
	<-finished
	return nil
}

// Connect registers a client and sends it the current graph and its state.
func (h *Hub) Connect(id string, out Emitter) {
	opts := h.opts
	opts.Logger = h.logger.With("client", id)
	sess := &session{
		id:        id,
		out:       out,
		editor:    editor.New(h.store, h.ids, opts),
		transform: viewport.Identity(),
	}
	h.sessions[id] = sess

	h.logger.Info("Client connected", "client", id, "clients", len(h.sessions))
	h.send(sess, EventGraph, h.store.Snapshot())
	h.send(sess, EventState, sess.editor.State())
}

// Disconnect drops a client's session.
func (h *Hub) Disconnect(id string) {
	if _, ok := h.sessions[id]; !ok {
		return
	}
	delete(h.sessions, id)
	h.logger.Info("Client disconnected", "client", id, "clients", len(h.sessions))
}

// Dispatch handles one event from a client. Failures are reported to that
// client as an error event and returned.
func (h *Hub) Dispatch(id, event string, payload any) error {
	sess, ok := h.sessions[id]
	if !ok {
		return ErrUnknownClient
	}

	h.logger.Debug("Handling event", "client", id, "event", event)
	if err := h.handle(sess, event, payload); err != nil {
		h.logger.Warn("Event failed", "client", id, "event", event, "error", err)
		h.send(sess, EventError, errorMessage{Event: event, Message: err.Error()})
		return err
	}

	h.send(sess, EventState, sess.editor.State())
	return nil
}

func (h *Hub) send(sess *session, ev string, arg any) {
	if err := sess.out.Emit(ev, arg); err != nil {
		h.logger.Warn("Failed to emit", "client", sess.id, "event", ev, "error", err)
	}
}
