package service

import (
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
)

// Stop reason codes reported in ExecuteResult.StopReasonCode
const (
	StopObstacle = "obstacle"
)

// Event types reported in ExecuteResult.Events
const (
	EventReset    = "reset"
	EventRotate   = "rotate"
	EventMove     = "move"
	EventWrap     = "wrap"
	EventObstacle = "obstacle"
)

// SessionInfo provides information about a rover session
type SessionInfo struct {
	ID             string                `json:"id"`
	ConfigID       string                `json:"config_id"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	State          *engine.MissionState  `json:"state"`
	Config         *engine.MissionConfig `json:"config"`
}

// ExecuteResult contains the outcome of one command batch
type ExecuteResult struct {
	BatchID string `json:"batch_id"`
	Success bool   `json:"success"`

	// Position is the last successfully reached position
	Position       engine.Position `json:"position"`
	StartPosition  engine.Position `json:"start_position"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	StopReasonCode string          `json:"stop_reason_code,omitempty"`
	// StoppedOnCommand is the 1-based index of the failing command
	StoppedOnCommand int                   `json:"stopped_on_command,omitempty"`
	Obstacle         *engine.ObstacleFound `json:"obstacle,omitempty"`

	CommandsExecuted  int  `json:"commands_executed"`
	RequestedCommands int  `json:"requested_commands"`
	Truncated         bool `json:"truncated,omitempty"`
	Limit             int  `json:"limit,omitempty"`

	Steps  []StepInfo     `json:"steps,omitempty"`
	Events []MissionEvent `json:"events"`

	PossibleMoves []string             `json:"possible_moves,omitempty"`
	State         *engine.MissionState `json:"state"`
}

// StepInfo is a compact record for each executed command in a batch
type StepInfo struct {
	Idx     int             `json:"idx"`
	Command string          `json:"command"`
	From    engine.Position `json:"from"`
	To      engine.Position `json:"to"`
	Wrapped bool            `json:"wrapped,omitempty"`
	Success bool            `json:"success"`
}

// MissionEvent represents something that happened while executing a batch
type MissionEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []engine.CommandHistoryEntry `json:"commands"`
	TotalCommands int                          `json:"total_commands"`
	Page          int                          `json:"page"`
	PageSize      int                          `json:"page_size"`
	TotalPages    int                          `json:"total_pages"`
	HasNext       bool                         `json:"has_next"`
	HasPrevious   bool                         `json:"has_previous"`
}

// GridView is a text rendering of the plateau, top row first
type GridView struct {
	SessionID string          `json:"session_id"`
	Rows      []string        `json:"rows"`
	Position  engine.Position `json:"position"`
	Legend    string          `json:"legend"`
}

// ConfigInfo provides information about a mission configuration
type ConfigInfo struct {
	Filename      string         `json:"filename"`
	ConfigID      string         `json:"config_id"` // The identifier to use for session creation
	Name          string         `json:"name"`      // Display name
	Description   string         `json:"description"`
	Plateau       engine.Plateau `json:"plateau"`
	ObstacleCount int            `json:"obstacle_count"`
}

// JournalSummary describes one journal file
type JournalSummary struct {
	SessionID     string          `json:"session_id"`
	ConfigID      string          `json:"config_id"`
	UpdatedAt     time.Time       `json:"updated_at"`
	TotalCommands int             `json:"total_commands"`
	Position      engine.Position `json:"position"`
}

// JournalRecord is the audit trail of a session. It is never used to restore
// a rover.
type JournalRecord struct {
	SessionID      string                       `json:"session_id"`
	ConfigID       string                       `json:"config_id"`
	MissionName    string                       `json:"mission_name"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
	Position       engine.Position              `json:"position"`
	Halted         bool                         `json:"halted"`
	TotalCommands  int                          `json:"total_commands"`
	CommandHistory []engine.CommandHistoryEntry `json:"command_history"`
}
