package service

import (
	"context"
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
)

// RoverService defines all mission operations
type RoverService interface {
	// Session Management
	CreateSession(ctx context.Context, configID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	Execute(ctx context.Context, sessionID, commands string, reset bool) (*ExecuteResult, error)
	ExecuteCommands(ctx context.Context, sessionID string, commands []engine.Command, reset bool) (*ExecuteResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.MissionState, error)

	// Rover State
	GetRoverState(ctx context.Context, sessionID string) (*engine.MissionState, error)
	GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetGrid(ctx context.Context, sessionID string) (*GridView, error)

	// Journals
	ListJournals(ctx context.Context) ([]*JournalSummary, error)
	GetJournal(ctx context.Context, sessionID string) (*JournalRecord, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*engine.MissionConfig, error)
	SaveConfig(ctx context.Context, configID string, config *engine.MissionConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.MissionConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configID string, config *engine.MissionConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles mission configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MissionConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MissionConfig
	DefaultID() string
	SaveConfig(name string, config *engine.MissionConfig) error
}

// JournalReader reads back the audit trail written for sessions
type JournalReader interface {
	List() ([]*JournalSummary, error)
	Read(sessionID string) (*JournalRecord, error)
}

// Session represents an active rover session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.MissionEngine
	Config         *engine.MissionConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
