package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// MissionConfig describes a plateau, its obstacles and where the rover lands
type MissionConfig struct {
	Name                string          `json:"name" yaml:"name"`
	Description         string          `json:"description" yaml:"description"`
	Plateau             Plateau         `json:"plateau" yaml:"plateau"`
	Obstacles           []Coordinate    `json:"obstacles" yaml:"obstacles"`
	Start               StartConfig     `json:"start" yaml:"start"`
	MaxCommandsPerBatch int             `json:"max_commands_per_batch,omitempty" yaml:"max_commands_per_batch,omitempty"`
	Messages            MissionMessages `json:"messages" yaml:"messages"`
}

// StartConfig is the landing position of the rover
type StartConfig struct {
	X         int       `json:"x" yaml:"x"`
	Y         int       `json:"y" yaml:"y"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// ArrivedPlaceholder marks where the final position goes in Messages.Arrived.
// The text is not a format string; no other verb is expanded.
const ArrivedPlaceholder = "%s"

// MissionMessages are the texts shown to operators
type MissionMessages struct {
	Welcome string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Arrived string `json:"arrived,omitempty" yaml:"arrived,omitempty"` // %s is the final position
	Blocked string `json:"blocked,omitempty" yaml:"blocked,omitempty"` // prefixed to the obstacle report
	Reset   string `json:"reset,omitempty" yaml:"reset,omitempty"`
}

// StartPosition returns the configured landing position
func (c *MissionConfig) StartPosition() Position {
	return Position{
		Direction:  c.Start.Direction,
		Coordinate: Coordinate{X: c.Start.X, Y: c.Start.Y},
	}
}

// ObstacleList converts the configured coordinates to obstacles
func (c *MissionConfig) ObstacleList() []Obstacle {
	obstacles := make([]Obstacle, 0, len(c.Obstacles))
	for _, coord := range c.Obstacles {
		obstacles = append(obstacles, Obstacle{Coordinate: coord})
	}
	return obstacles
}

// MaxCommands returns the batch limit, falling back to DefaultMaxCommands
func (c *MissionConfig) MaxCommands() int {
	if c.MaxCommandsPerBatch <= 0 {
		return DefaultMaxCommands
	}
	return c.MaxCommandsPerBatch
}

// ValidateMissionConfig checks a configuration and reports every violation found
func ValidateMissionConfig(config *MissionConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("config validation: "+format, args...))
	}

	if strings.TrimSpace(config.Name) == "" {
		add("name is required")
	}

	plateauErr := config.Plateau.Validate()
	if plateauErr != nil {
		add("%v", plateauErr)
	}

	seen := make(map[Coordinate]bool, len(config.Obstacles))
	for i, obstacle := range config.Obstacles {
		if plateauErr == nil && !config.Plateau.Contains(obstacle) {
			add("obstacle %d at %s is outside the plateau", i+1, obstacle)
		}
		if seen[obstacle] {
			add("obstacle %d at %s is a duplicate", i+1, obstacle)
		}
		seen[obstacle] = true
	}

	start := config.StartPosition()
	if !start.Direction.Valid() {
		add("start direction %d is invalid", int(start.Direction))
	}
	if plateauErr == nil && !config.Plateau.Contains(start.Coordinate) {
		add("start %s is outside the plateau", start.Coordinate)
	}
	if seen[start.Coordinate] {
		add("start %s is on an obstacle", start.Coordinate)
	}

	if config.MaxCommandsPerBatch < 0 || config.MaxCommandsPerBatch > MaxCommandsPerBatch {
		add("max_commands_per_batch must be between 0 and %d, got %d", MaxCommandsPerBatch, config.MaxCommandsPerBatch)
	}

	if config.Messages.Arrived != "" && !strings.Contains(config.Messages.Arrived, ArrivedPlaceholder) {
		add("messages.arrived must contain the %s placeholder for the final position", ArrivedPlaceholder)
	}

	return errs
}

// DecodeMissionConfig parses data as YAML when ext is .yaml or .yml and as JSON otherwise
func DecodeMissionConfig(data []byte, ext string) (*MissionConfig, error) {
	var config MissionConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// LoadMissionConfig reads, decodes and validates a mission file
func LoadMissionConfig(filename string) (*MissionConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeMissionConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse mission file '%s': %w", filename, err)
	}

	if err := ValidateMissionConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultMissionConfig returns the built-in 6x6 mission with obstacles in two corners
func DefaultMissionConfig() *MissionConfig {
	return &MissionConfig{
		Name:        "default",
		Description: "6x6 plateau with obstacles at the bottom-left and top-right corners",
		Plateau: Plateau{
			BottomLeft: Coordinate{X: 0, Y: 0},
			TopRight:   Coordinate{X: 5, Y: 5},
		},
		Obstacles: []Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}},
		Start:     StartConfig{X: 0, Y: 2, Direction: North},
		Messages: MissionMessages{
			Welcome: "Rover landed. Awaiting commands.",
			Arrived: "Commands complete. Rover at %s",
			Reset:   "Rover returned to landing position",
		},
	}
}
