// Package mcp exposes the rover REST API as Model Context Protocol tools.
//
// The client holds no rover state. Every tool call becomes one or more HTTP
// requests against the API server, so the MCP endpoint and REST clients
// always see the same sessions.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - rover_state: position, heading and a rendering of the plateau
//   - execute_commands: run a batch such as "FFRFF" or "F3R"
//   - reset_rover: back to the landing position
//   - command_history: paginated command log
//   - list_configs: available missions
//   - mission_instructions: the full rules
//   - describe_cell: free, blocked or rover for one coordinate
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
