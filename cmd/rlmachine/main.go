// Command rlmachine is the reference driver: it resolves a game directory,
// opens the save/game registry, and optionally starts the live inspector.
// It does not build or run a Machine. It owns no bytecode decoding or INI
// parsing itself — those collaborators (collab.Scriptor, collab.Config,
// collab.TextSystem) are supplied by Bootstrap's caller, since file-format
// decoding is out of scope for this module.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"sentra/internal/callstack"
	"sentra/internal/collab"
	"sentra/internal/inspector"
	"sentra/internal/machine"
	"sentra/internal/memory"
	"sentra/internal/opreg"
	"sentra/internal/registry"
)

// logLevel mirrors the none|info|warning|error levels --log-level accepts.
type logLevel int

const (
	levelNone logLevel = iota
	levelError
	levelWarning
	levelInfo
)

func parseLogLevel(s string) (logLevel, error) {
	switch s {
	case "none":
		return levelNone, nil
	case "error":
		return levelError, nil
	case "warning":
		return levelWarning, nil
	case "info":
		return levelInfo, nil
	default:
		return levelNone, fmt.Errorf("unknown --log-level %q (want none, info, warning, or error)", s)
	}
}

// leveledLogger wraps a *log.Logger, dropping messages above the configured
// level and, when stderr is a terminal, color-coding the level tag.
type leveledLogger struct {
	level logLevel
	out   *log.Logger
	color bool
}

func newLeveledLogger(level logLevel) *leveledLogger {
	return &leveledLogger{
		level: level,
		out:   log.New(os.Stderr, "", log.LstdFlags),
		color: isatty.IsTerminal(os.Stderr.Fd()),
	}
}

const (
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func (l *leveledLogger) tag(level logLevel, label, ansiColor string) string {
	if !l.color {
		return "[" + label + "]"
	}
	return ansiColor + "[" + label + "]" + ansiReset
}

func (l *leveledLogger) Info(format string, args ...any) {
	if l.level < levelInfo {
		return
	}
	l.out.Printf("%s %s", l.tag(levelInfo, "info", ""), fmt.Sprintf(format, args...))
}

func (l *leveledLogger) Warning(format string, args ...any) {
	if l.level < levelWarning {
		return
	}
	l.out.Printf("%s %s", l.tag(levelWarning, "warn", ansiYellow), fmt.Sprintf(format, args...))
}

func (l *leveledLogger) Error(format string, args ...any) {
	if l.level < levelError {
		return
	}
	l.out.Printf("%s %s", l.tag(levelError, "error", ansiRed), fmt.Sprintf(format, args...))
}

// AsStdLogger returns a *log.Logger that machine.New accepts, filtering
// through Info so machine-internal diagnostics respect --log-level.
func (l *leveledLogger) AsStdLogger() *log.Logger {
	return log.New(infoWriter{l}, "", 0)
}

type infoWriter struct{ l *leveledLogger }

func (w infoWriter) Write(p []byte) (int, error) {
	w.l.Info("%s", string(p))
	return len(p), nil
}

func main() {
	gameRoot := flag.String("game-root", "", "path to the game's installed directory (required)")
	seenStart := flag.Int("seen-start", 0, "scenario number to start execution from")
	font := flag.String("font", "", "path to a fallback font file for the text collaborator")
	logLevelFlag := flag.String("log-level", "info", "log verbosity: none, info, warning, or error")
	inspectAddr := flag.String("inspector-addr", "", "if set, bind the live debug-event websocket here (e.g. localhost:6969)")
	registryPath := flag.String("registry", "", "override path to the game/save registry database")
	flag.Parse()

	level, err := parseLogLevel(*logLevelFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := newLeveledLogger(level)

	if *gameRoot == "" {
		logger.Error("--game-root is required")
		os.Exit(1)
	}
	if _, err := os.Stat(*gameRoot); err != nil {
		logger.Error("game root %s: %v", *gameRoot, err)
		os.Exit(1)
	}
	_ = *font // the text collaborator that consumes this path is supplied by Bootstrap's caller

	reg, err := registry.Open(*registryPath)
	if err != nil {
		logger.Error("opening registry: %v", err)
		os.Exit(1)
	}
	defer reg.Close()

	regname := filepath.Base(filepath.Clean(*gameRoot))
	if _, err := reg.RegisterGame(regname, *gameRoot); err != nil {
		logger.Warning("registering game %s: %v", regname, err)
	}

	var insp *inspector.Server
	if *inspectAddr != "" {
		insp = inspector.New(*inspectAddr)
		errServe := insp.ListenAndServe()
		logger.Info("inspector listening on %s", *inspectAddr)
		go func() {
			if err := <-errServe; err != nil {
				logger.Warning("inspector server stopped: %v", err)
			}
		}()
		defer insp.Close()
	}

	logger.Info("rlmachine ready: game-root=%s seen-start=%d", *gameRoot, *seenStart)
	logger.Warning("no bytecode archive or INI collaborator wired — call Bootstrap from an embedding program to run a scenario")
}

// Bootstrap wires a fully-constructed Machine from caller-supplied
// collaborators and an already-sized, already-loaded set of memory banks —
// the seam an embedding program uses once it has its own archive reader and
// INI-backed collab.Config. main itself only exercises the ambient/registry/
// inspector plumbing above, since this module supplies no archive decoder.
func Bootstrap(banks *memory.Banks, scriptor collab.Scriptor, text collab.TextSystem, cfg collab.Config, logger *log.Logger, startScenario, startOffset int) (*machine.Machine, error) {
	stack := callstack.New()
	intSize, strSize := 0, 0
	if ids := cfg.IntBankIDs(); len(ids) > 0 {
		intSize = cfg.IntBankSize(ids[0])
	}
	if ids := cfg.StrBankIDs(); len(ids) > 0 {
		strSize = cfg.StrBankSize(ids[0])
	}
	stack.Push(callstack.NewFrame(callstack.Location{Scenario: startScenario, Offset: startOffset}, callstack.Root, intSize, strSize))
	reg := opreg.NewRegistry()
	return machine.New(banks, stack, reg, scriptor, text, cfg, logger), nil
}
