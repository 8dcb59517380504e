package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/gateway"
	"solo-quiz-service/internal/infra/memory"
)

func TestWebSocketFullSession(t *testing.T) {
	server, _ := newTestServer(t, samplePool())
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	// Initial view: naming phase.
	view := readView(t, conn)
	if view["phase"] != "namingPlayer" {
		t.Fatalf("expected naming phase, got %v", view["phase"])
	}

	writeIntent(t, conn, "submitName", map[string]any{"name": "Alice"})
	view = readView(t, conn)
	if view["phase"] != "awaitingAnswer" {
		t.Fatalf("expected quiz start, got %v", view)
	}
	if view["playerName"] != "Alice" {
		t.Fatalf("expected player name Alice, got %v", view["playerName"])
	}

	// Single-question pool: answer it correctly and finish.
	writeIntent(t, conn, "selectOption", map[string]any{"option": "4"})
	view = readView(t, conn)
	if view["phase"] != "showingFeedback" {
		t.Fatalf("expected feedback, got %v", view)
	}
	fb, ok := view["feedback"].(map[string]any)
	if !ok || fb["correct"] != true {
		t.Fatalf("expected correct feedback, got %v", view["feedback"])
	}

	writeIntent(t, conn, "advance", nil)
	view = readView(t, conn)
	if view["phase"] != "finished" {
		t.Fatalf("expected finished, got %v", view)
	}
	if view["finalScore"] != float64(10) {
		t.Fatalf("expected score 10, got %v", view["finalScore"])
	}
	if view["scoreSubmitted"] != true {
		t.Fatalf("expected score submitted, got %v", view)
	}

	writeIntent(t, conn, "viewRanking", nil)
	view = readView(t, conn)
	if view["phase"] != "showingRanking" {
		t.Fatalf("expected ranking, got %v", view)
	}
	rows, ok := view["ranking"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one ranking row, got %v", view["ranking"])
	}
}

func TestWrongPhaseIntentKeepsSessionAlive(t *testing.T) {
	server, _ := newTestServer(t, samplePool())
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	_ = readView(t, conn) // naming

	// Answering before the quiz started is rejected without killing state.
	writeIntent(t, conn, "selectOption", map[string]any{"option": "4"})
	typ, payload := readNext(t, conn)
	if typ != "error" {
		t.Fatalf("expected error envelope, got %s", typ)
	}
	if payload["code"] != "badIntent" {
		t.Fatalf("expected badIntent code, got %v", payload["code"])
	}
	view := readView(t, conn)
	if view["phase"] != "namingPlayer" {
		t.Fatalf("expected state untouched, got %v", view["phase"])
	}

	// The session still works afterwards.
	writeIntent(t, conn, "submitName", map[string]any{"name": "Bob"})
	view = readView(t, conn)
	if view["phase"] != "awaitingAnswer" {
		t.Fatalf("expected quiz start after recovery, got %v", view)
	}
}

func TestEmptyPoolClosesSession(t *testing.T) {
	server, _ := newTestServer(t, nil)
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	_ = readView(t, conn) // naming

	writeIntent(t, conn, "submitName", map[string]any{"name": "Alice"})
	typ, payload := readNext(t, conn)
	if typ != "error" || payload["code"] != "dataUnavailable" {
		t.Fatalf("expected dataUnavailable error, got %s %v", typ, payload)
	}
	_ = readView(t, conn)

	// Server closes the connection after a terminal error.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("expected closed connection, read %v", msg)
	}
}

func newTestServer(t *testing.T, pool []domain.Question) (*httptest.Server, *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore(pool)
	gw := gateway.New(memory.NewAuthProvider(), store, time.Second)
	factory := func() *app.Controller {
		return app.NewController(gw, memory.NewNameCache())
	}
	wsHandler := NewWSHandler(factory)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	return httptest.NewServer(mux), store
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func writeIntent(t *testing.T, conn *websocket.Conn, typ string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

func readView(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	typ, payload := readNext(t, conn)
	if typ != "view" {
		t.Fatalf("expected view envelope, got %s (%v)", typ, payload)
	}
	return payload
}

func samplePool() []domain.Question {
	return []domain.Question{
		{ID: "q1", Prompt: "2+2?", Options: []string{"3", "4", "5"}, Answer: "4"},
	}
}
