package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/export"
	"dndflow/store"
	"dndflow/viewport"
)

// Events accepted from clients.
const (
	EventInit         = "init"
	EventViewport     = "viewport"
	EventDrop         = "drop"
	EventNodeClick    = "nodeClick"
	EventChange       = "change"
	EventUpdate       = "update"
	EventMove         = "move"
	EventConnectNodes = "connectNodes"
	EventNodesChange  = "nodesChange"
	EventEdgesChange  = "edgesChange"
	EventExport       = "export"
)

// ClientEvents lists the events a client may send, in registration order.
var ClientEvents = []string{
	EventInit, EventViewport, EventDrop, EventNodeClick, EventChange,
	EventUpdate, EventMove, EventConnectNodes, EventNodesChange, EventEdgesChange,
	EventExport,
}

var (
	ErrUnknownClient = errors.New("unknown client")
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownNode   = store.ErrUnknownNode
)

type dropRequest struct {
	Type    string       `json:"type"`
	ClientX float64      `json:"clientX"`
	ClientY float64      `json:"clientY"`
	Bounds  diagram.Rect `json:"bounds"`
}

type nodeRequest struct {
	ID string `json:"id"`
}

type changeRequest struct {
	Value string `json:"value"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type exportRequest struct {
	Format string `json:"format"`
}

type exportResult struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

type errorMessage struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

func (h *Hub) handle(sess *session, event string, payload any) error {
	switch event {
	case EventInit:
		t := viewport.Identity()
		if err := decode(payload, &t); err != nil {
			return err
		}
		sess.transform = t
		return sess.editor.Init(sess)

	case EventViewport:
		var t viewport.Transform
		if err := decode(payload, &t); err != nil {
			return err
		}
		sess.transform = t
		return nil

	case EventDrop:
		var req dropRequest
		if err := decode(payload, &req); err != nil {
			return err
		}
		sess.editor.DropPayload(req.Type, diagram.Point{X: req.ClientX, Y: req.ClientY}, req.Bounds)
		return nil

	case EventNodeClick:
		var req nodeRequest
		if err := decode(payload, &req); err != nil {
			return err
		}
		if !sess.editor.SelectNode(req.ID) {
			return fmt.Errorf("%w: %q", ErrUnknownNode, req.ID)
		}
		return nil

	case EventChange:
		var req changeRequest
		if err := decode(payload, &req); err != nil {
			return err
		}
		sess.editor.HandleChange(req.Value)
		return nil

	case EventUpdate:
		sess.editor.HandleEdit()
		return nil

	case EventMove:
		var req moveRequest
		if err := decode(payload, &req); err != nil {
			return err
		}
		sess.editor.Nudge(editor.ParseDirection(req.Direction))
		return nil

	case EventConnectNodes:
		var conn diagram.Connection
		if err := decode(payload, &conn); err != nil {
			return err
		}
		_, err := sess.editor.Connect(conn)
		return err

	case EventNodesChange:
		var changes []store.NodeChange
		if err := decode(payload, &changes); err != nil {
			return err
		}
		return h.store.ApplyNodeChanges(changes)

	case EventEdgesChange:
		var changes []store.EdgeChange
		if err := decode(payload, &changes); err != nil {
			return err
		}
		return h.store.ApplyEdgeChanges(changes)

	case EventExport:
		req := exportRequest{Format: string(export.FormatJSON)}
		if err := decode(payload, &req); err != nil {
			return err
		}
		format, err := export.ParseFormat(req.Format)
		if err != nil {
			return err
		}
		content, err := export.Export(format, h.store.Snapshot().Graph())
		if err != nil {
			return fmt.Errorf("failed to export graph: %w", err)
		}
		h.send(sess, EventExported, exportResult{Format: string(format), Content: content})
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
}

// decode converts a socket.io payload (already parsed into maps and slices)
// into v. A missing payload leaves v untouched.
func decode(payload, v any) error {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
