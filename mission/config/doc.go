// Package config provides mission configuration management.
//
// Missions are stored as JSON (.json) or YAML (.yaml, .yml) files in a config
// directory. The file name without extension is the config ID used to create
// sessions. Each mission defines:
//   - The plateau corners
//   - Obstacle coordinates
//   - The landing position and heading of the rover
//   - An optional per-batch command limit
//   - Operator messages
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mission, err := manager.LoadConfig("acceptance")
//	missions, err := manager.ListConfigs()
//	fallback := manager.GetDefault()
//
// Every mission is validated on load and on save; a file with any violation is
// rejected with ErrInvalidConfig and all of its violations.
package config
