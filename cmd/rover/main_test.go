package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mars-rover/mission/engine"
)

const acceptanceYAML = `name: Acceptance
plateau: {bottom_left: {x: 0, y: 0}, top_right: {x: 5, y: 5}}
obstacles: [{x: 0, y: 0}, {x: 5, y: 5}]
start: {x: 0, y: 2, direction: NORTH}
`

func writeMission(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"rover"}, args...))
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeMission(t, dir, "acceptance.yaml", acceptanceYAML)

	tests := []struct {
		name     string
		args     []string
		want     string
		wantFail bool
	}{
		{"acceptance 1", []string{"FFRFF"}, "2 4 EAST", false},
		{"backward wrap", []string{"RBB"}, "4 2 EAST", false},
		{"repeat counts", []string{"F2", "R", "F2"}, "2 4 EAST", false},
		{"obstacle", []string{"FFFFRF"}, "Obstacle found at <X:0; Y:0> when traveling from <X:0; Y:5> and direction: NORTH", true},
		{"start override", []string{"--start", "3 3 W", "F"}, "2 3 WEST", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--config-dir", dir, "--mission", "acceptance"}, tt.args...)
			out, err := run(t, args...)

			if tt.wantFail {
				if !errors.Is(err, errMissionFailed) {
					t.Errorf("Expected mission failure, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if strings.TrimSpace(out) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestRunCommand_MissionFileAndGrid(t *testing.T) {
	path := writeMission(t, t.TempDir(), "mission.yaml", acceptanceYAML)

	out, err := run(t, "run", "--mission", path, "--grid", "RBB")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("Expected position and 6 grid rows, got %q", out)
	}
	if lines[0] != "4 2 EAST" {
		t.Errorf("Expected 4 2 EAST, got %s", lines[0])
	}
	if lines[1] != ".....#" || lines[4] != "....>." || lines[6] != "#....." {
		t.Errorf("Unexpected grid:\n%s", strings.Join(lines[1:], "\n"))
	}
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	writeMission(t, dir, "acceptance.yaml", acceptanceYAML)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad letter", []string{"FXF"}, "parse commands"},
		{"no commands", []string{}, "no commands"},
		{"unknown mission", []string{"--mission", "nowhere", "F"}, "not found"},
		{"bad start", []string{"--start", "1 2", "F"}, "expected"},
		{"start on obstacle", []string{"--start", "0 0 N", "F"}, "on an obstacle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--config-dir", dir}, tt.args...)
			_, err := run(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseStart(t *testing.T) {
	got, err := parseStart(" -1 4 south ")
	if err != nil {
		t.Fatal(err)
	}
	want := engine.StartConfig{X: -1, Y: 4, Direction: engine.South}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	for _, bad := range []string{"", "1 2", "a 2 N", "1 b N", "1 2 UP"} {
		if _, err := parseStart(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeMission(t, dir, "acceptance.yaml", acceptanceYAML)
	writeMission(t, dir, "notes.txt", "not a mission")
	writeMission(t, dir, "broken.json", `{
		"name": "",
		"plateau": {"bottom_left": {"x": 0, "y": 0}, "top_right": {"x": 2, "y": 2}},
		"obstacles": [{"x": 1, "y": 1}, {"x": 9, "y": 9}],
		"start": {"x": 1, "y": 1, "direction": "N"}
	}`)

	out, err := run(t, "validate", dir)
	if !errors.Is(err, errMissionFailed) {
		t.Errorf("Expected failure for invalid mission, got %v", err)
	}

	for _, want := range []string{
		"✓ " + filepath.Join(dir, "acceptance.yaml"),
		"✗ " + filepath.Join(dir, "broken.json"),
		"name is required",
		"outside the plateau",
		"on an obstacle",
		"2 files, 1 invalid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "notes.txt") {
		t.Error("Expected non-mission files to be skipped")
	}
}

func TestValidateCommand_AllValid(t *testing.T) {
	path := writeMission(t, t.TempDir(), "acceptance.yaml", acceptanceYAML)

	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "1 files, 0 invalid") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	writeMission(t, dir, "acceptance.yaml", acceptanceYAML)
	writeMission(t, dir, "pit.yml", `name: Pit
plateau: {bottom_left: {x: 0, y: 0}, top_right: {x: 2, y: 2}}
obstacles: [{x: 1, y: 0}, {x: 1, y: 2}, {x: 0, y: 1}, {x: 2, y: 1}]
start: {x: 1, y: 1, direction: EAST}
`)

	out, err := run(t, "analyze", dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"Name: Acceptance",
		"Plateau: 6x6 (36 cells)",
		"Obstacles: 2 (5.6% density)",
		"Free cells: 34",
		"Start: 0 2 NORTH",
		"Batch limit: 500",
		"Name: Pit",
		"Free cells: 5",
		"Start is boxed in",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, "boxed in") != 1 {
		t.Errorf("Expected only the pit to be boxed in:\n%s", out)
	}
}
