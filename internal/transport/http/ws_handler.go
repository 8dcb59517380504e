package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/domain"
)

// ControllerFactory builds a fresh session controller for one connection.
type ControllerFactory func() *app.Controller

// WSHandler speaks the widget protocol over a websocket: intents in, view
// snapshots out. Each connection is exactly one quiz session; when the
// connection dies, the session dies with it.
type WSHandler struct {
	newController ControllerFactory
	upgrader      websocket.Upgrader
}

func NewWSHandler(factory ControllerFactory) *WSHandler {
	return &WSHandler{
		newController: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type namePayload struct {
	Name string `json:"name"`
}

type optionPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the session loop. Intents are read
// one at a time, so no two backend calls for the same session are ever in
// flight together; the client cannot race a pending transition.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	send := make(chan any, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Error("ws write failed", "err", err)
				return
			}
		}
	}()
	defer func() {
		close(send)
		<-writerDone
	}()

	ctrl := h.newController()
	if err := ctrl.Start(r.Context()); err != nil {
		// Auth failure aborts startup; the client shows a reload message.
		send <- outboundMessage[errorPayload]{Type: "error", Payload: classify(err)}
		return
	}
	send <- outboundMessage[app.View]{Type: "view", Payload: ctrl.View()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		err := h.dispatch(r, ctrl, inbound)
		if err != nil {
			send <- outboundMessage[errorPayload]{Type: "error", Payload: classify(err)}
		}
		// Always re-send the view: state may have moved even on error
		// (a failed score write still finishes the quiz).
		send <- outboundMessage[app.View]{Type: "view", Payload: ctrl.View()}

		if errors.Is(err, domain.ErrAuth) || errors.Is(err, domain.ErrDataUnavailable) {
			return
		}
	}
}

func (h *WSHandler) dispatch(r *http.Request, ctrl *app.Controller, inbound inboundMessage) error {
	ctx := r.Context()
	switch inbound.Type {
	case "submitName":
		var p namePayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errors.New("invalid submitName payload")
		}
		return ctrl.SubmitName(ctx, p.Name)
	case "selectOption":
		var p optionPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errors.New("invalid selectOption payload")
		}
		_, err := ctrl.SelectOption(p.Option)
		return err
	case "advance":
		return ctrl.Advance(ctx)
	case "viewRanking":
		return ctrl.Ranking(ctx)
	case "restart":
		return ctrl.Restart(ctx)
	default:
		return errors.New("unsupported intent: " + inbound.Type)
	}
}

func classify(err error) errorPayload {
	p := errorPayload{Message: err.Error()}
	switch {
	case errors.Is(err, domain.ErrAuth):
		p.Code = "auth"
	case errors.Is(err, domain.ErrDataUnavailable):
		p.Code = "dataUnavailable"
	case errors.Is(err, domain.ErrWrite):
		p.Code = "write"
	case errors.Is(err, domain.ErrFetch):
		p.Code = "fetch"
	case errors.Is(err, domain.ErrBadIntent):
		p.Code = "badIntent"
	default:
		p.Code = "invalid"
	}
	return p
}
