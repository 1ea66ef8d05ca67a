// Package api provides the HTTP REST API of the mission server.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "acceptance"}, optional)
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session and its journal
//
// Rover:
//   - GET /api/sessions/{id}/state - Current mission state
//   - POST /api/sessions/{id}/commands - Execute a command batch
//   - POST /api/sessions/{id}/reset - Return the rover to its landing position
//   - GET /api/sessions/{id}/history - Paginated command history (page, limit, order)
//   - GET /api/sessions/{id}/grid - Plateau rendering (format=text for plain text)
//
// Missions:
//   - GET /api/configs - List valid missions
//   - POST /api/configs - Save a mission
//   - GET /api/configs/{name} - Get a mission
//
// Journals:
//   - GET /api/journals - List session journals
//   - GET /api/journals/{id} - Read a session journal
//
// Other:
//   - GET /api/health - Liveness probe
//   - GET /ws?session={id} - WebSocket state updates
//
// Command batches are sent either as text or as a list:
//
//	{"commands": "FFRFF"}
//	{"command_list": ["F2", "R", "F2"], "reset": true}
//
// Failures are reported as {"error": "..."}: 400 for unparsable commands or
// invalid missions, 404 for unknown sessions, missions or journals.
// A batch stopped by an obstacle is not an HTTP error; the response has
// "success": false and the failure reason.
package api
