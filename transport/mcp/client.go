package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rover Mission",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover Mission - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Drive a rover across a rectangular plateau. The rover turns with L and R and
drives with F and B. Leaving one edge brings it back on the opposite edge.
A batch stops at the first obstacle and the rover stays where it was.

AVAILABLE TOOLS:
- create_session: Land a new rover on a mission
- list_sessions / get_session: Inspect rovers
- rover_state: Current position, heading and grid
- execute_commands: Run a command batch such as "FFRFF" or "F3R" - requires intent explanation
- reset_rover: Put the rover back on its landing position
- command_history: Past commands, paginated
- list_configs: Available missions
- mission_instructions: Full rules
- describe_cell: Whether a plateau cell is free or blocked

NOTE: The 'intent' parameter on execute_commands serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	sessionParam := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))

	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Land a new rover, optionally on a named mission"),
		mcp.WithString("config_id", mcp.Description("Mission to use (optional, see list_configs)")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active rover sessions"),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionParam,
	), c.handleGetSession)

	c.mcpServer.AddTool(mcp.NewTool("rover_state",
		mcp.WithDescription("Get the rover position, heading and a rendering of the plateau"),
		sessionParam,
	), c.handleRoverState)

	c.mcpServer.AddTool(mcp.NewTool("execute_commands",
		mcp.WithDescription("Execute a batch of rover commands. Letters L, R, F, B (M is an alias of F), optionally followed by a repeat count, e.g. \"F3RF2\"."),
		sessionParam,
		mcp.WithString("commands", mcp.Required(), mcp.Description("Command letters, e.g. \"FFRFF\"")),
		mcp.WithString("intent", mcp.Description("Brief explanation of the intent behind this batch (serves as a rubber duck to help explain your reasoning)")),
		mcp.WithBoolean("reset", mcp.Description("Reset the rover before executing")),
	), c.handleExecuteCommands)

	c.mcpServer.AddTool(mcp.NewTool("reset_rover",
		mcp.WithDescription("Return the rover to its landing position"),
		sessionParam,
	), c.handleReset)

	c.mcpServer.AddTool(mcp.NewTool("command_history",
		mcp.WithDescription("Get command history for a session"),
		sessionParam,
		mcp.WithNumber("page", mcp.Description("Page number")),
		mcp.WithNumber("limit", mcp.Description("Items per page")),
		mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("Sort order, newest first by default")),
	), c.handleCommandHistory)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available missions"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("mission_instructions",
		mcp.WithDescription("Get the complete mission rules"),
	), c.handleMissionInstructions)

	c.mcpServer.AddTool(mcp.NewTool("describe_cell",
		mcp.WithDescription("Describe one plateau cell: inside the plateau or not, free or blocked, and whether the rover is on it."),
		sessionParam,
		mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate (grows east)")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate (grows north)")),
	), c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one REST request and decodes the JSON response into result
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMission: %s\n", session.ID, session.ConfigID)
	if session.State != nil {
		result += "\n" + formatMissionState(session.State)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		position := "?"
		if s.State != nil {
			position = s.State.Position.String()
		}
		fmt.Fprintf(&b, "- %s (Mission: %s, Rover: %s, Created: %s)\n",
			s.ID, s.ConfigID, position, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleRoverState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMissionState(&state)), nil
}

func (c *Client) handleExecuteCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commands, err := request.RequireString("commands")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// intent is only for the caller's own reasoning
	_ = request.GetString("intent", "")

	body := map[string]interface{}{
		"commands": commands,
		"reset":    request.GetBool("reset", false),
	}

	var result service.ExecuteResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/commands"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatExecuteResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string               `json:"message"`
		State   *engine.MissionState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatMissionState(response.State))), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Missions:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n", cfg.ConfigID, cfg.Name)
		if cfg.Description != "" {
			fmt.Fprintf(&b, "  %s\n", cfg.Description)
		}
		fmt.Fprintf(&b, "  Plateau: %dx%d, Obstacles: %d\n\n",
			cfg.Plateau.Width(), cfg.Plateau.Height(), cfg.ObstacleCount)
	}
	return mcp.NewToolResultText(b.String()), nil
}

const missionInstructions = `Mars Rover Mission - Complete Instructions

OBJECTIVE:
Drive the rover across a rectangular plateau without hitting obstacles.

COMMANDS:
• L - turn left 90 degrees, stays in place
• R - turn right 90 degrees, stays in place
• F - move one cell forward in the current heading (M is accepted as F)
• B - move one cell backward, heading unchanged
• A letter may be followed by a repeat count: "F3" is "FFF"
• Spaces and commas between letters are ignored

COORDINATES:
• X grows to the EAST, Y grows to the NORTH
• Bounds are inclusive: a 0..5 plateau has 6 columns and 6 rows

WRAPPING:
• Driving off one edge brings the rover in on the opposite edge
• Example: at (0,5) facing NORTH, F lands on (0,0)

OBSTACLES:
• A move into an obstacle cell is refused
• The batch stops at that command and the rover keeps its last position
• The failure reads "Obstacle found at <X:x; Y:y> when traveling from <X:x; Y:y> and direction: D"
• Commands after the failing one are not executed

GRID LEGEND (rover_state, get_session):
• # - obstacle
• . - free cell
• ^ > v < - the rover and its heading
• The top row is the northern edge

TIPS:
• Use describe_cell to check a cell before driving into it
• Use reset on execute_commands to start a batch from the landing position
• "Possible moves" after each batch lists the commands that would succeed next

Good luck, and mind the craters!`

func (c *Client) handleMissionInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(missionInstructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := request.RequireInt("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, engine.Coordinate{X: x, Y: y})), nil
}

// describeCell reports what the rover would find at c
func describeCell(state *engine.MissionState, c engine.Coordinate) string {
	p := state.Plateau
	if !p.Contains(c) {
		return fmt.Sprintf("Cell %s is outside the plateau (%d..%d, %d..%d). A rover driving there wraps to the opposite edge.",
			c, p.BottomLeft.X, p.TopRight.X, p.BottomLeft.Y, p.TopRight.Y)
	}

	var kind, char string
	passable := true
	switch {
	case state.Position.Coordinate == c:
		kind, char = "Rover", string(engine.RoverGlyph(state.Position.Direction))
	case containsCoordinate(state.Obstacles, c):
		kind, char, passable = "Obstacle", "#", false
	default:
		kind, char = "Free", "."
	}

	result := fmt.Sprintf("Cell at %s:\n━━━━━━━━━━━━━━━━━━━━━━━━\nCharacter: %s\nType: %s\nPassable: %v\n",
		c, char, kind, passable)
	if kind == "Rover" {
		result += fmt.Sprintf("Heading: %s\n", state.Position.Direction)
	}
	return result
}

func containsCoordinate(coords []engine.Coordinate, c engine.Coordinate) bool {
	for _, o := range coords {
		if o == c {
			return true
		}
	}
	return false
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nMission: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatMissionState(session.State))
}

func formatMissionState(state *engine.MissionState) string {
	if state == nil {
		return "No rover state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rover: %s | Commands: %d\n", state.Position, state.TotalCommands)
	if state.Halted && state.LastFailure != nil {
		fmt.Fprintf(&b, "Halted: last batch stopped by obstacle at %s\n", state.LastFailure.Coordinate)
	}
	b.WriteString("\n")

	rows := renderState(state)
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}
	return b.String()
}

// renderState draws the plateau from a decoded state
func renderState(state *engine.MissionState) []string {
	obstacles := make([]engine.Obstacle, 0, len(state.Obstacles))
	for _, o := range state.Obstacles {
		obstacles = append(obstacles, engine.Obstacle{Coordinate: o})
	}
	return engine.RenderGrid(state.Plateau, engine.NewInMemoryLocalizator(state.Plateau, obstacles), state.Position)
}

func formatExecuteResult(sessionID string, result *service.ExecuteResult) string {
	var b strings.Builder

	missionName := ""
	if result.State != nil {
		missionName = result.State.MissionName
	}
	fmt.Fprintf(&b, "Session: %s • Mission: %s\n", sessionID, missionName)

	if result.Success {
		b.WriteString("✓ Batch completed\n")
	} else {
		b.WriteString("✗ Batch stopped\n")
	}
	fmt.Fprintf(&b, "Executed %d/%d commands\n", result.CommandsExecuted, result.RequestedCommands)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated: only the first %d commands were run\n", result.Limit)
	}
	fmt.Fprintf(&b, "Position: %s\n", result.Position)
	if result.FailureReason != "" {
		fmt.Fprintf(&b, "Stopped on command %d: %s\n", result.StoppedOnCommand, result.FailureReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatMissionState(result.State))
	return b.String()
}

func formatStepLine(s service.StepInfo) string {
	status := "✓"
	if !s.Success {
		status = "✗"
	}
	wrapped := ""
	if s.Wrapped {
		wrapped = " (wrapped)"
	}
	return fmt.Sprintf("%d. %s %s → %s%s %s\n", s.Idx, s.Command, s.From, s.To, wrapped, status)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalCommands)

	for _, entry := range history.Commands {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s → %s %s", entry.CommandNumber, entry.Command, entry.From, entry.To, status)
		if !entry.Success && entry.Message != "" {
			fmt.Fprintf(&b, " (%s)", entry.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}
