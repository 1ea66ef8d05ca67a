// Package service provides the application layer of the mission server.
//
// RoverService is the transport-agnostic API used by the REST server, the
// WebSocket hub and the MCP tools. It owns no state itself: sessions come from
// a SessionManager, mission configurations from a ConfigManager and the audit
// trail from a JournalReader.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	roverService := service.NewRoverService(sessionMgr, configMgr, nil)
//
//	info, err := roverService.CreateSession(ctx, "acceptance")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := roverService.Execute(ctx, info.ID, "LMLMLMLMM", false)
//
// Every Execute call is tagged with a fresh batch ID so history entries from
// one request can be told apart. A batch stops at the first obstacle; the rover
// keeps the last position it reached and the next batch starts from there.
package service
