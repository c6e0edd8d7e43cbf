// Package main is the thoughtmap command. It renders saved thought maps
// in the terminal, converts them to JSON and runs Lua editing scripts
// against them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/thoughtmap/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// flags holds the parsed command line.
type flags struct {
	ConfigPath string
	LogLevel   string
	Color      string
	Output     string
	Watch      bool
	Width      int
	Args       []string
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(f, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := a.dispatch(ctx, f.Args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	var showVersion bool
	fs := flag.NewFlagSet("thoughtmap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&f.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.Color, "color", "auto", "Use colors: auto, always or never")
	fs.StringVar(&f.Output, "o", "", "Write the edited map of 'run' to this file")
	fs.BoolVar(&f.Watch, "watch", false, "Render again whenever the map file changes")
	fs.IntVar(&f.Width, "width", 0, "Maximum width of a thought in cells (0 uses the terminal width)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "thoughtmap - thought map editing core\n\n")
		fmt.Fprintf(stderr, "Usage: thoughtmap [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  render <map>             Draw a map in the terminal\n")
		fmt.Fprintf(stderr, "  json <map>               Print a map as JSON\n")
		fmt.Fprintf(stderr, "  run <script.lua> [map]   Run a Lua script against a map\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  thoughtmap render plans.xml\n")
		fmt.Fprintf(stderr, "  thoughtmap -watch render plans.xml\n")
		fmt.Fprintf(stderr, "  thoughtmap -o plans.xml run outline.lua plans.xml\n")
	}

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if showVersion {
		fmt.Fprintf(stderr, "thoughtmap %s (%s)\n", version, commit)
		return f, flag.ErrHelp
	}
	if f.LogLevel != "" && !logging.ValidLevel(f.LogLevel) {
		return f, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", f.LogLevel)
	}
	switch f.Color {
	case "auto", "always", "never":
	default:
		return f, fmt.Errorf("invalid color mode %q (must be auto, always, or never)", f.Color)
	}
	f.Args = fs.Args()
	if len(f.Args) == 0 {
		fs.Usage()
		return f, errUsage
	}
	return f, nil
}

// colorEnabled decides whether output to w gets styles.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}
