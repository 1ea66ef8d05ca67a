package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigID is the mission used when a session names none
const DefaultConfigID = "acceptance"

// BuiltinConfigID identifies the built-in mission used when the directory has none
const BuiltinConfigID = "default"

// Extensions lists the recognised mission file extensions in lookup order
var Extensions = []string{".json", ".yaml", ".yml"}

// Manager handles mission configuration loading and caching
type Manager struct {
	configDir     string
	defaultID     string
	defaultConfig *engine.MissionConfig
	configs       map[string]*engine.MissionConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.MissionConfig),
	}

	m.mu.Lock()
	m.loadDefaultConfig()
	m.mu.Unlock()

	return m, nil
}

// ConfigID strips a recognised extension from name
func ConfigID(name string) string {
	ext := filepath.Ext(name)
	for _, known := range Extensions {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// LoadConfig loads a configuration by ID, with or without extension
func (m *Manager) LoadConfig(name string) (*engine.MissionConfig, error) {
	id := ConfigID(name)

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}
	return m.loadLocked(id)
}

// loadLocked reads, validates and caches a mission. Callers must hold m.mu.
func (m *Manager) loadLocked(id string) (*engine.MissionConfig, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, ErrConfigNotFound
	}

	path, err := m.findFile(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.DecodeMissionConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	if err := engine.ValidateMissionConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	m.configs[id] = config
	return config, nil
}

func (m *Manager) findFile(id string) (string, error) {
	for _, ext := range Extensions {
		path := filepath.Join(m.configDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// ListConfigs returns information about all valid configurations, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		id := ConfigID(entry.Name())
		if entry.IsDir() || id == entry.Name() || seen[id] {
			continue
		}
		seen[id] = true

		config, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid configs
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:      entry.Name(),
			ConfigID:      id,
			Name:          config.Name,
			Description:   config.Description,
			Plateau:       config.Plateau,
			ObstacleCount: len(config.Obstacles),
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.MissionConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// DefaultID returns the config ID of the default configuration
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default configuration by ID
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = ConfigID(name)
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations and picks the default again
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs = make(map[string]*engine.MissionConfig)
	m.loadDefaultConfig()
}

// loadDefaultConfig picks DefaultConfigID, else the first valid file in name
// order, else the built-in mission. Callers must hold m.mu.
func (m *Manager) loadDefaultConfig() {
	if config, err := m.loadLocked(DefaultConfigID); err == nil {
		m.defaultID, m.defaultConfig = DefaultConfigID, config
		return
	}

	entries, err := os.ReadDir(m.configDir)
	if err == nil {
		// ReadDir returns entries sorted by filename
		for _, entry := range entries {
			id := ConfigID(entry.Name())
			if entry.IsDir() || id == entry.Name() {
				continue
			}
			if config, err := m.loadLocked(id); err == nil {
				m.defaultID, m.defaultConfig = id, config
				return
			}
		}
	}

	m.defaultID, m.defaultConfig = BuiltinConfigID, engine.DefaultMissionConfig()
}

// SaveConfig validates config and writes it as indented JSON
func (m *Manager) SaveConfig(name string, config *engine.MissionConfig) error {
	if err := engine.ValidateMissionConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	id := ConfigID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: bad config ID %q", ErrInvalidConfig, name)
	}

	var data []byte
	var err error
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		ext = ".json"
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A mission is stored under one extension only
	for _, other := range Extensions {
		if other != ext {
			os.Remove(filepath.Join(m.configDir, id+other))
		}
	}

	if err := os.WriteFile(filepath.Join(m.configDir, id+ext), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.configs[id] = config
	return nil
}
