// Command kbdsim replays keyboard scenarios against an emulated Cardputer
// or Cardputer ADV and prints the decoded key state of every frame.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	kbdlog "kbdcore-go/internal/log"
	"kbdcore-go/services/hal/platform/setups"
)

type CLI struct {
	Config string `help:"Config file (.json, .yaml or .toml)" type:"path" env:"KBDSIM_CONFIG"`
	Log    struct {
		Level string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"KBDSIM_LOG_LEVEL"`
		File  string `help:"Also write logs to this file" env:"KBDSIM_LOG_FILE"`
	} `embed:"" prefix:"log-"`

	Play   PlayCmd   `cmd:"" help:"Replay a scenario file"`
	Boards BoardsCmd `cmd:"" help:"List the emulated boards"`
}

type PlayCmd struct {
	Scenario string `arg:"" help:"Scenario file (.yaml or .toml)" type:"existingfile"`
	Board    string `help:"Board to emulate; overrides the scenario" env:"KBDSIM_BOARD"`
}

// Run is called by kong when the play command is executed.
func (c *PlayCmd) Run(log *slog.Logger) error {
	sc, err := LoadScenario(c.Scenario)
	if err != nil {
		return err
	}
	name := c.Board
	if name == "" {
		name = sc.Board
	}
	if name == "" {
		name = setups.Cardputer.Setup.Board
	}
	board, ok := setups.ByName(name)
	if !ok {
		return fmt.Errorf("unknown board %q (known: %s)", name, strings.Join(setups.Names(), ", "))
	}
	log.Info("playing", "scenario", c.Scenario, "board", name, "frames", len(sc.Frames))
	_, err = Play(sc, board, log)
	return err
}

type BoardsCmd struct{}

func (BoardsCmd) Run() error {
	for _, n := range setups.Names() {
		b, _ := setups.ByName(n)
		fmt.Printf("%-16s %s\n", n, b.Setup.Reader.Type)
	}
	return nil
}

func main() {
	cfg := findConfig(os.Args[1:])
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kbdsim"),
		kong.Description("Keyboard matrix simulator"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, pathsFor(cfg, ".json")...),
		kong.Configuration(kongyaml.Loader, pathsFor(cfg, ".yaml", ".yml")...),
		kong.Configuration(kongtoml.Loader, pathsFor(cfg, ".toml")...),
	)

	logger, closer, err := kbdlog.Setup(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer closer.Close()

	ctx.Bind(logger)
	err = ctx.Run()
	if errors.Is(err, os.ErrNotExist) {
		logger.Error("missing file", "err", err)
	}
	ctx.FatalIfErrorf(err)
}

func findConfig(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("KBDSIM_CONFIG")
}

// pathsFor routes the user config to the loader matching its extension.
func pathsFor(path string, exts ...string) []string {
	if path == "" {
		return nil
	}
	for _, e := range exts {
		if strings.EqualFold(filepath.Ext(path), e) {
			return []string{path}
		}
	}
	return nil
}
