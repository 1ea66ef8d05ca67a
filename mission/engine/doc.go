// Package engine provides the navigation core of the Mars Rover mission server.
//
// The engine package implements:
//   - The rover data model (Coordinate, Direction, Position, Plateau, Obstacle)
//   - Rotation over the four-point compass and single-step translation
//   - Bounds, occupancy and wrap-around queries over a fixed plateau
//   - The Navigator that turns one command into a rotation or translation outcome
//   - The Rover that folds a command sequence, stopping at the first failure
//   - The MissionEngine that owns one rover, its history and its configuration
//
// Core Types:
//
// Command and Result are closed sum types: Rotation and Translation are the only
// Command implementations, RotationSuccess, TranslationSuccess and Failure the only
// Result implementations. CommandResult is either CommandSuccess or CommandFailure.
//
// Usage:
//
//	plateau := engine.Plateau{TopRight: engine.Coordinate{X: 5, Y: 5}}
//	obstacles := []engine.Obstacle{{Coordinate: engine.Coordinate{X: 0, Y: 0}}}
//	nav := engine.NewNavigator(engine.CompassRose{}, engine.SingleStep{},
//		engine.NewInMemoryLocalizator(plateau, obstacles))
//
//	rover := engine.NewRover(nav, engine.Position{Direction: engine.North})
//	switch res := rover.Handle([]engine.Command{engine.MoveForward}).(type) {
//	case engine.CommandSuccess:
//		fmt.Println(res.Position)
//	case engine.CommandFailure:
//		fmt.Println(res.Reason)
//	}
//
// Navigation Rules:
//
// Moving off one edge of the plateau re-enters from the opposite edge. Moving onto
// an obstacle halts the sequence; the rover keeps the last position it reached and
// the remaining commands are never evaluated.
package engine
