// Command rover drives a mission offline, without the server.
//
//	rover run --mission acceptance FFRFF
//	rover validate configs/
//	rover analyze configs/crater-field.json
//
// run prints the final position as "x y DIRECTION", or the obstacle message
// and exits 1 when the rover was blocked.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"github.com/wricardo/mars-rover/mission/command"
	"github.com/wricardo/mars-rover/mission/config"
	"github.com/wricardo/mars-rover/mission/engine"
)

// errMissionFailed is returned after the failure has already been printed
var errMissionFailed = errors.New("mission failed")

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errMissionFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "rover",
		Usage: "run and check Mars rover missions offline",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "execute commands against a mission",
				ArgsUsage: "<commands>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mission", Aliases: []string{"m"}, Usage: "mission file or name in the config directory"},
					&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR"), Usage: "directory holding named missions"},
					&cli.StringFlag{Name: "start", Usage: `override the landing position, e.g. "1 2 N"`},
					&cli.BoolFlag{Name: "grid", Usage: "print the plateau after the run"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runMission(out, cmd)
				},
			},
			{
				Name:      "validate",
				Usage:     "check mission files and list every problem",
				ArgsUsage: "[files or dirs...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return validateMissions(out, argsOrDefault(cmd))
				},
			},
			{
				Name:      "analyze",
				Usage:     "print plateau statistics for mission files",
				ArgsUsage: "[files or dirs...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return analyzeMissions(out, argsOrDefault(cmd))
				},
			},
		},
	}
}

func argsOrDefault(cmd *cli.Command) []string {
	if cmd.Args().Len() == 0 {
		return []string{"configs"}
	}
	return cmd.Args().Slice()
}

func runMission(out io.Writer, cmd *cli.Command) error {
	mission, err := loadMission(cmd.String("mission"), cmd.String("config-dir"))
	if err != nil {
		return err
	}

	if s := cmd.String("start"); s != "" {
		start, err := parseStart(s)
		if err != nil {
			return err
		}
		mission.Start = start
	}

	commands, err := command.Parse(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(mission)
	if err != nil {
		return err
	}

	report := eng.Execute(commands)
	if report.Truncated {
		fmt.Fprintf(out, "only the first %d of %d commands were run\n", report.Limit, report.Requested)
	}

	failure, failed := report.Failure()
	if failed {
		fmt.Fprintln(out, failure.Reason)
	} else {
		fmt.Fprintln(out, eng.GetPosition())
	}

	if cmd.Bool("grid") {
		for _, row := range eng.RenderGrid() {
			fmt.Fprintln(out, row)
		}
	}

	if failed {
		return errMissionFailed
	}
	return nil
}

// loadMission reads ref as a file when it exists and as a mission name otherwise
func loadMission(ref, configDir string) (*engine.MissionConfig, error) {
	if ref != "" {
		if info, err := os.Stat(ref); err == nil && !info.IsDir() {
			return engine.LoadMissionConfig(ref)
		}
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		if ref == "" {
			return engine.DefaultMissionConfig(), nil
		}
		return nil, err
	}
	mission := manager.GetDefault()
	if ref != "" {
		if mission, err = manager.LoadConfig(ref); err != nil {
			return nil, err
		}
	}
	// the manager caches configs, so --start must not touch its copy
	clone := *mission
	return &clone, nil
}

// parseStart reads "x y D"
func parseStart(s string) (engine.StartConfig, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return engine.StartConfig{}, fmt.Errorf("start %q: expected \"x y DIRECTION\"", s)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return engine.StartConfig{}, fmt.Errorf("start x: %w", err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return engine.StartConfig{}, fmt.Errorf("start y: %w", err)
	}
	d, err := engine.ParseDirection(fields[2])
	if err != nil {
		return engine.StartConfig{}, err
	}
	return engine.StartConfig{X: x, Y: y, Direction: d}, nil
}

// missionFiles expands directories into their mission files, sorted by name
func missionFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && config.ConfigID(e.Name()) != e.Name() {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func validateMissions(out io.Writer, paths []string) error {
	files, err := missionFiles(paths)
	if err != nil {
		return err
	}

	invalid := 0
	for _, file := range files {
		problems := missionProblems(file)
		if len(problems) == 0 {
			fmt.Fprintf(out, "✓ %s\n", file)
			continue
		}
		invalid++
		fmt.Fprintf(out, "✗ %s\n", file)
		for _, p := range problems {
			fmt.Fprintf(out, "    - %v\n", p)
		}
	}

	fmt.Fprintf(out, "\n%d files, %d invalid\n", len(files), invalid)
	if invalid > 0 {
		return errMissionFailed
	}
	return nil
}

func missionProblems(file string) []error {
	data, err := os.ReadFile(file)
	if err != nil {
		return []error{err}
	}
	mission, err := engine.DecodeMissionConfig(data, filepath.Ext(file))
	if err != nil {
		return []error{fmt.Errorf("decode: %w", err)}
	}
	return multierr.Errors(engine.ValidateMissionConfig(mission))
}

func analyzeMissions(out io.Writer, paths []string) error {
	files, err := missionFiles(paths)
	if err != nil {
		return err
	}

	for _, file := range files {
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", file)
		mission, err := engine.LoadMissionConfig(file)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		analyzeMission(out, mission)
	}
	return nil
}

func analyzeMission(out io.Writer, mission *engine.MissionConfig) {
	p := mission.Plateau
	loc := engine.NewInMemoryLocalizator(p, mission.ObstacleList())
	start := mission.StartPosition()

	fmt.Fprintf(out, "Name: %s\n", mission.Name)
	fmt.Fprintf(out, "Plateau: %dx%d (%d cells)\n", p.Width(), p.Height(), p.Area())
	fmt.Fprintf(out, "Obstacles: %d (%.1f%% density)\n",
		len(mission.Obstacles), 100*float64(len(mission.Obstacles))/float64(p.Area()))
	fmt.Fprintf(out, "Free cells: %d\n", engine.CountFreeCells(p, loc))
	fmt.Fprintf(out, "Start: %s\n", start)
	fmt.Fprintf(out, "Batch limit: %d\n", mission.MaxCommands())
	if engine.IsBoxedIn(loc, start.Coordinate) {
		fmt.Fprintln(out, "⚠️  Start is boxed in: no F or B command can ever succeed")
	}
}
