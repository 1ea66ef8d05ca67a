package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mars-rover/mission/command"
	"github.com/wricardo/mars-rover/mission/engine"
)

var (
	ErrInvalidCommands  = errors.New("invalid commands")
	ErrJournalsDisabled = errors.New("journals are not enabled")
	ErrJournalNotFound  = errors.New("journal not found")
)

// roverServiceImpl implements the RoverService interface
type roverServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	journals JournalReader
	mu       sync.RWMutex
}

// NewRoverService creates a new rover service instance. journals may be nil
// when no journal directory is configured.
func NewRoverService(sessions SessionManager, configs ConfigManager, journals JournalReader) RoverService {
	return &roverServiceImpl{
		sessions: sessions,
		configs:  configs,
		journals: journals,
	}
}

func (s *roverServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Engine.GetState(),
		Config:         sess.Config,
	}
}

// CreateSession creates a new rover session on the given mission
func (s *roverServiceImpl) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.MissionConfig
	var err error
	if configID != "" {
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			return nil, s.describeConfigError(configID, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.configs.DefaultID()
	}

	// Let session manager generate a 4-character ID
	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess), nil
}

// describeConfigError lists the available mission IDs when configID is unknown
func (s *roverServiceImpl) describeConfigError(configID string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("failed to load config %s: %w", configID, err)
	}
	ids := make([]string, 0, len(available))
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("failed to load config %s (available: %v): %w", configID, ids, err)
}

// GetSession retrieves session information
func (s *roverServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// touching the access time is a write to the session
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *roverServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session and its journal
func (s *roverServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// Execute parses commands and runs them on the session's rover. Blank input
// is an empty batch.
func (s *roverServiceImpl) Execute(ctx context.Context, sessionID, commands string, reset bool) (*ExecuteResult, error) {
	parsed, err := command.Parse(commands)
	if err != nil && !errors.Is(err, command.ErrEmptyProgram) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommands, err)
	}
	return s.ExecuteCommands(ctx, sessionID, parsed, reset)
}

// ExecuteCommands runs commands on the session's rover, stopping at the first
// obstacle. An empty list succeeds without moving the rover.
func (s *roverServiceImpl) ExecuteCommands(ctx context.Context, sessionID string, commands []engine.Command, reset bool) (*ExecuteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &ExecuteResult{
		BatchID:           uuid.NewString(),
		RequestedCommands: len(commands),
		Events:            make([]MissionEvent, 0),
	}

	if reset {
		state := sess.Engine.Reset()
		result.Events = append(result.Events, MissionEvent{
			Type:      EventReset,
			Message:   state.Message,
			Timestamp: time.Now(),
			Position:  state.Position,
		})
	}
	result.StartPosition = sess.Engine.GetPosition()

	sess.Engine.SetBatchID(result.BatchID)
	report := sess.Engine.Execute(commands)
	sess.Engine.SetBatchID("")

	result.CommandsExecuted = report.Executed
	result.Truncated = report.Truncated
	if report.Truncated {
		result.Limit = report.Limit
	}

	for _, step := range report.Steps {
		info := StepInfo{
			Idx:     step.Index + 1,
			Command: step.Command.String(),
			From:    step.Before,
			To:      step.After,
			Success: step.Succeeded(),
		}
		if moved, ok := step.Result.(engine.TranslationSuccess); ok {
			info.Wrapped = moved.Wrapped
		}
		result.Steps = append(result.Steps, info)
		result.Events = append(result.Events, stepEvents(step, info)...)
	}

	switch res := report.Result.(type) {
	case engine.CommandSuccess:
		result.Success = true
	case engine.CommandFailure:
		result.FailureReason = res.Reason
		result.StopReasonCode = StopObstacle
		result.StoppedOnCommand = res.Index + 1
		if obstacle, ok := res.Cause.(engine.ObstacleFound); ok {
			result.Obstacle = &obstacle
		}
	}

	result.Position = sess.Engine.GetPosition()
	result.PossibleMoves = sess.Engine.GetPossibleMoves()
	result.State = sess.Engine.GetState()

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to journal session %s after execute: %v", sessionID, err)
	}

	return result, nil
}

// stepEvents describes one executed command as events
func stepEvents(step engine.Step, info StepInfo) []MissionEvent {
	now := time.Now()
	switch res := step.Result.(type) {
	case engine.RotationSuccess:
		return []MissionEvent{{
			Type:      EventRotate,
			Message:   fmt.Sprintf("Rotated %s to face %s", step.Command, res.Direction),
			Timestamp: now,
			Position:  step.After,
		}}
	case engine.TranslationSuccess:
		events := []MissionEvent{{
			Type:      EventMove,
			Message:   fmt.Sprintf("Moved %s to (%d,%d)", step.Command, res.Coordinate.X, res.Coordinate.Y),
			Timestamp: now,
			Position:  step.After,
		}}
		if info.Wrapped {
			events = append(events, MissionEvent{
				Type:      EventWrap,
				Message:   fmt.Sprintf("Wrapped around the plateau edge to (%d,%d)", res.Coordinate.X, res.Coordinate.Y),
				Timestamp: now,
				Position:  step.After,
			})
		}
		return events
	case engine.Failure:
		return []MissionEvent{{
			Type:      EventObstacle,
			Message:   res.Reason.Error(),
			Timestamp: now,
			Position:  step.Before,
		}}
	}
	return nil
}

// Reset puts the session's rover back on its landing position
func (s *roverServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.Reset()

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to journal session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// GetRoverState retrieves the current mission state
func (s *roverServiceImpl) GetRoverState(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// touching the access time is a write to the session
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.GetState(), nil
}

// GetCommandHistory returns paginated command history
func (s *roverServiceImpl) GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	return paginateHistory(sess.Engine.GetCommandHistory(), opts), nil
}

func paginateHistory(history []engine.CommandHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	// pages past the end are empty, and skipping them keeps the offset from overflowing
	commands := []engine.CommandHistoryEntry{}
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := min(start+opts.Limit, total)

		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
				commands = append(commands, history[i])
			}
		} else if start < total {
			commands = append(commands, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Commands:      commands,
		TotalCommands: total,
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}
}

// GetGrid renders the session's plateau
func (s *roverServiceImpl) GetGrid(ctx context.Context, sessionID string) (*GridView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	return &GridView{
		SessionID: sess.ID,
		Rows:      sess.Engine.RenderGrid(),
		Position:  sess.Engine.GetPosition(),
		Legend:    "# obstacle, . free, ^ > v < rover heading",
	}, nil
}

// ListJournals lists the journals on disk
func (s *roverServiceImpl) ListJournals(ctx context.Context) ([]*JournalSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.journals == nil {
		return nil, ErrJournalsDisabled
	}
	return s.journals.List()
}

// GetJournal reads the journal of a session
func (s *roverServiceImpl) GetJournal(ctx context.Context, sessionID string) (*JournalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.journals == nil {
		return nil, ErrJournalsDisabled
	}
	return s.journals.Read(sessionID)
}

// ListConfigs returns available mission configurations
func (s *roverServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific mission configuration
func (s *roverServiceImpl) LoadConfig(ctx context.Context, configID string) (*engine.MissionConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.configs.LoadConfig(configID)
}

// SaveConfig saves a mission configuration to disk
func (s *roverServiceImpl) SaveConfig(ctx context.Context, configID string, config *engine.MissionConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.configs.SaveConfig(configID, config)
}
