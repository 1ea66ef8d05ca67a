package engine

import (
	"slices"
	"strings"
)

// MissionEngine runs one rover on one mission. It is not safe for concurrent
// use; callers serialize access.
type MissionEngine struct {
	config    *MissionConfig
	navigator *Navigator
	rover     *Rover
	state     *MissionState
	batchID   string
}

// NewEngine creates a mission engine with the provided configuration
func NewEngine(config *MissionConfig) (*MissionEngine, error) {
	if err := ValidateMissionConfig(config); err != nil {
		return nil, err
	}

	localizator := NewInMemoryLocalizator(config.Plateau, config.ObstacleList())
	e := &MissionEngine{
		config:    config,
		navigator: NewNavigator(CompassRose{}, SingleStep{}, localizator),
	}
	e.rover = NewRover(e.navigator, config.StartPosition())
	e.state = InitMissionStateFromConfig(config)
	return e, nil
}

// InitMissionStateFromConfig creates the landing state for config
func InitMissionStateFromConfig(config *MissionConfig) *MissionState {
	obstacles := make([]Coordinate, len(config.Obstacles))
	copy(obstacles, config.Obstacles)

	return &MissionState{
		MissionName:     config.Name,
		Position:        config.StartPosition(),
		Plateau:         config.Plateau,
		Obstacles:       obstacles,
		Message:         config.Messages.Welcome,
		CommandHistory:  []CommandHistoryEntry{},
		CurrentCommands: []CommandHistoryEntry{},
	}
}

// GetState returns a snapshot of the mission state. The snapshot shares no
// memory with the engine, so it stays valid while later batches run.
func (e *MissionEngine) GetState() *MissionState {
	snapshot := *e.state
	snapshot.Obstacles = slices.Clone(e.state.Obstacles)
	snapshot.CommandHistory = slices.Clone(e.state.CommandHistory)
	snapshot.CurrentCommands = slices.Clone(e.state.CurrentCommands)
	if e.state.LastFailure != nil {
		failure := *e.state.LastFailure
		snapshot.LastFailure = &failure
	}
	snapshot.LocalView = e.GetLocalView()
	return &snapshot
}

// Reset puts the rover back on its landing position
func (e *MissionEngine) Reset() *MissionState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.CommandHistory
	prevTotal := e.state.TotalCommands

	e.rover = NewRover(e.navigator, e.config.StartPosition())
	e.state = InitMissionStateFromConfig(e.config)
	if e.config.Messages.Reset != "" {
		e.state.Message = e.config.Messages.Reset
	}

	e.state.CommandHistory = prevHistory
	e.state.TotalCommands = prevTotal

	return e.GetState()
}

// GetPosition returns the current rover position
func (e *MissionEngine) GetPosition() Position {
	return e.rover.Position()
}

// IsHalted returns whether the last batch stopped on an obstacle
func (e *MissionEngine) IsHalted() bool {
	return e.state.Halted
}

// SetBatchID tags the history entries of the next Execute calls
func (e *MissionEngine) SetBatchID(id string) {
	e.batchID = id
}

// Execute runs commands through the rover, stopping at the first failure.
// Commands beyond the configured batch limit are dropped.
func (e *MissionEngine) Execute(commands []Command) *ExecutionReport {
	report := &ExecutionReport{
		Requested: len(commands),
		Limit:     e.config.MaxCommands(),
	}
	if len(commands) > report.Limit {
		commands = commands[:report.Limit]
		report.Truncated = true
	}

	report.Result = e.rover.HandleFunc(commands, func(step Step) {
		report.Steps = append(report.Steps, step)

		message := ""
		if failure, ok := step.Result.(Failure); ok {
			message = failure.Reason.Error()
		}
		e.state.AddCommandToHistory(step.Command.String(), step.Before, step.After, step.Succeeded(), message, e.batchID)
	})
	report.Executed = len(report.Steps)

	e.state.Position = e.rover.Position()
	switch res := report.Result.(type) {
	case CommandSuccess:
		e.state.Halted = false
		e.state.LastFailure = nil
		e.state.Message = e.arrivedMessage(res.Position)
	case CommandFailure:
		e.state.Halted = true
		if obstacle, ok := res.Cause.(ObstacleFound); ok {
			e.state.LastFailure = &obstacle
		}
		e.state.Message = res.Reason
		if e.config.Messages.Blocked != "" {
			e.state.Message = e.config.Messages.Blocked + " " + res.Reason
		}
	}

	return report
}

// arrivedMessage fills the %s placeholder of the configured text. Any other
// verb or percent sign is kept as written.
func (e *MissionEngine) arrivedMessage(position Position) string {
	text := e.config.Messages.Arrived
	if text == "" {
		text = "Rover at " + ArrivedPlaceholder
	}
	return strings.ReplaceAll(text, ArrivedPlaceholder, position.String())
}

// CanMove reports whether command would succeed from the current position
func (e *MissionEngine) CanMove(command Translation) bool {
	_, ok := e.navigator.HandleTranslation(command, e.rover.Position()).(TranslationSuccess)
	return ok
}

// GetPossibleMoves lists the commands that would succeed right now
func (e *MissionEngine) GetPossibleMoves() []string {
	possible := []string{RotateLeft.String(), RotateRight.String()}
	for _, t := range []Translation{MoveForward, MoveBackward} {
		if e.CanMove(t) {
			possible = append(possible, t.String())
		}
	}
	return possible
}

// GetConfig returns the mission configuration
func (e *MissionEngine) GetConfig() *MissionConfig {
	return e.config
}

// GetCommandHistory returns a copy of the complete command history
func (e *MissionEngine) GetCommandHistory() []CommandHistoryEntry {
	return slices.Clone(e.state.CommandHistory)
}

// GetLastCommand returns a copy of the last executed command, or nil if none
func (e *MissionEngine) GetLastCommand() *CommandHistoryEntry {
	if len(e.state.CommandHistory) == 0 {
		return nil
	}
	last := e.state.CommandHistory[len(e.state.CommandHistory)-1]
	return &last
}

// GetLocalView returns the 8 cells around the rover
func (e *MissionEngine) GetLocalView() []SurroundingCell {
	return SurroundingCells(e.navigator.Localizator(), e.rover.Position().Coordinate)
}

// RenderGrid draws the plateau, top row first
func (e *MissionEngine) RenderGrid() []string {
	return RenderGrid(e.config.Plateau, e.navigator.Localizator(), e.rover.Position())
}
