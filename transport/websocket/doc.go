// Package websocket pushes mission state to browsers and other watchers.
//
// A central Hub tracks the clients subscribed to each session. After every
// state-changing call the API broadcasts a message to the session:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {...MissionState}}
//
// An execute is preceded by its events, in order:
//
//	{"session_id": "a1b2", "event": "mission_events", "data": [{"type": "move", ...}]}
//
// Clients connect to /ws?session=<id>. Messages from clients are ignored; the
// connection is kept alive with ping/pong.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, state)
package websocket
