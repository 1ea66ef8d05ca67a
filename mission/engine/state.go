package engine

// MissionState is the externally visible state of a mission
type MissionState struct {
	MissionName string       `json:"mission_name"`
	Position    Position     `json:"position"`
	Plateau     Plateau      `json:"plateau"`
	Obstacles   []Coordinate `json:"obstacles"`
	Message     string       `json:"message"`

	// Halted is set when the last batch stopped on an obstacle. The next batch
	// still runs from the last reached position.
	Halted      bool           `json:"halted"`
	LastFailure *ObstacleFound `json:"last_failure,omitempty"`

	CommandHistory []CommandHistoryEntry `json:"command_history"`
	TotalCommands  int                   `json:"total_commands"`

	// CurrentCommands mirrors CommandHistory since the last reset
	CurrentCommands      []CommandHistoryEntry `json:"current_commands"`
	CurrentCommandsCount int                   `json:"current_commands_count"`

	LocalView []SurroundingCell `json:"local_view,omitempty"`
}

// CommandHistoryEntry records one executed command
type CommandHistoryEntry struct {
	Command       string   `json:"command"`
	From          Position `json:"from"`
	To            Position `json:"to"`
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	Timestamp     int64    `json:"timestamp"`
	CommandNumber int      `json:"command_number"`
	BatchID       string   `json:"batch_id,omitempty"`
}

// SurroundingCell is a neighbour of the rover with wrap applied
type SurroundingCell struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Occupied bool `json:"occupied"`
}

// ExecutionReport describes one batch run through the engine
type ExecutionReport struct {
	Result    CommandResult `json:"-"`
	Steps     []Step        `json:"steps"`
	Requested int           `json:"requested"`
	Executed  int           `json:"executed"`
	Truncated bool          `json:"truncated,omitempty"`
	Limit     int           `json:"limit"`
}

// Success reports whether every executed command was applied
func (r *ExecutionReport) Success() bool {
	_, ok := r.Result.(CommandSuccess)
	return ok
}

// Failure returns the failure of the batch, if any
func (r *ExecutionReport) Failure() (CommandFailure, bool) {
	f, ok := r.Result.(CommandFailure)
	return f, ok
}
