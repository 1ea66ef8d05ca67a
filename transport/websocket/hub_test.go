package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/mars-rover/mission/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "s")
	client2 := newTestClient(hub, "s")

	hub.registerClient(client1)
	hub.registerClient(client2)
	hub.unregisterClient(client1)

	if len(hub.sessions["s"]) != 1 || !hub.sessions["s"][client2] {
		t.Error("Expected client2 to remain registered")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected send channel of client1 to be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.sessions["s"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	// unregistering twice must not panic on a closed channel
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "ab12")
	other := newTestClient(hub, "cd34")
	hub.registerClient(client)
	hub.registerClient(other)

	state := &engine.MissionState{
		MissionName: "Acceptance",
		Position:    engine.Position{Direction: engine.East, Coordinate: engine.Coordinate{X: 2, Y: 4}},
	}
	hub.broadcastMessage(&Message{SessionID: "AB12", State: state, Event: EventStateUpdate})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event 'state_update', got %s", message.Event)
		}
		if message.State.Position != state.Position {
			t.Errorf("Expected position %v, got %v", state.Position, message.State.Position)
		}
	default:
		t.Error("Expected a message for the matching session")
	}

	select {
	case <-other.send:
		t.Error("Other sessions must not receive the message")
	default:
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "s", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "s", Event: "x"})

	if _, exists := hub.sessions["s"]; exists {
		t.Error("Expected the blocked client to be dropped")
	}
}

func TestWebSocketStateUpdate(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=WS01"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("ws01") != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Client was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	state := &engine.MissionState{
		Position: engine.Position{Direction: engine.South, Coordinate: engine.Coordinate{X: 1, Y: 3}},
		Halted:   true,
	}
	hub.BroadcastToSession("ws01", state)
	hub.BroadcastEvent("ws01", "reset", "landing site")

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var message Message
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	if message.State == nil || message.State.Position != state.Position || !message.State.Halted {
		t.Errorf("State not correctly received: %+v", message.State)
	}

	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if message.Event != "reset" || message.Data != "landing site" {
		t.Errorf("Unexpected event %+v", message)
	}

	conn.Close()
	deadline = time.Now().Add(time.Second)
	for hub.ClientCount("ws01") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Client was not unregistered after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
