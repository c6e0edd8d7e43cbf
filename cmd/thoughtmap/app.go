package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/thoughtmap/internal/config"
	"github.com/dshills/thoughtmap/internal/document"
	"github.com/dshills/thoughtmap/internal/logging"
	"github.com/dshills/thoughtmap/internal/preview"
	"github.com/dshills/thoughtmap/internal/script"
	"github.com/dshills/thoughtmap/internal/watch"
)

type app struct {
	flags    flags
	docOpts  document.Options
	renderer *preview.Renderer
	logger   *logging.Logger
	out      io.Writer
}

func newApp(f flags, stdout, stderr io.Writer) (*app, error) {
	var opts []config.Option
	if f.ConfigPath != "" {
		opts = append(opts, config.WithFile(f.ConfigPath))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}

	lc := cfg.LoggingConfig()
	lc.Output = stderr
	logger := logging.New(lc)

	docOpts, err := document.OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	width := f.Width
	if width == 0 {
		width = terminalWidth(stdout)
	}
	return &app{
		flags:   f,
		docOpts: docOpts,
		renderer: preview.New(docOpts.Theme, preview.Options{
			Color:    colorEnabled(f.Color, stdout),
			MaxWidth: width,
		}),
		logger: logger.WithComponent("cli"),
		out:    stdout,
	}, nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		if len(rest) != 1 {
			return a.usage("render <map>")
		}
		if a.flags.Watch {
			return a.watch(ctx, rest[0])
		}
		return a.render(rest[0])
	case "json":
		if len(rest) != 1 {
			return a.usage("json <map>")
		}
		return a.json(rest[0])
	case "run":
		if len(rest) < 1 || len(rest) > 2 {
			return a.usage("run <script.lua> [map]")
		}
		mapPath := ""
		if len(rest) == 2 {
			mapPath = rest[1]
		}
		return a.script(ctx, rest[0], mapPath)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (a *app) usage(s string) error {
	return fmt.Errorf("%w: thoughtmap %s", errUsage, s)
}

// load reads a map saved as XML, or as JSON when the name ends in .json.
// Fields that fail to load are logged and skipped.
func (a *app) load(path string) (*document.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m *document.Map
	if strings.EqualFold(filepath.Ext(path), ".json") {
		m, err = document.ReadJSON(data, a.docOpts)
	} else {
		m, err = document.ReadXML(bytes.NewReader(data), a.docOpts)
	}
	if m == nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		a.logger.Warn("%s: loaded with errors: %v", path, err)
	}
	return m, nil
}

func (a *app) render(path string) error {
	m, err := a.load(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, a.renderer.Map(m))
	return err
}

func (a *app) json(path string) error {
	m, err := a.load(path)
	if err != nil {
		return err
	}
	data, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// script runs a Lua file against the map at mapPath, or against a new
// map. The edited map is written to -o as XML, or to stdout without it.
func (a *app) script(ctx context.Context, path, mapPath string) error {
	var m *document.Map
	if mapPath != "" {
		var err error
		if m, err = a.load(mapPath); err != nil {
			return err
		}
	} else {
		m = document.New(a.docOpts)
	}

	eng := script.New(m, script.WithLogger(a.logger), script.WithOutput(os.Stderr))
	defer eng.Close()
	if err := eng.RunFile(ctx, path); err != nil {
		return err
	}

	if a.flags.Output == "" {
		return m.WriteXML(a.out)
	}
	var buf bytes.Buffer
	if err := m.WriteXML(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(a.flags.Output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	a.logger.Info("wrote %s", a.flags.Output)
	return nil
}

// watch renders path and renders it again after every change until ctx
// is done.
func (a *app) watch(ctx context.Context, path string) error {
	if err := a.render(path); err != nil {
		return err
	}
	w, err := watch.New(watch.DefaultDelay, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	err = w.Run(ctx, func(ev watch.Event) error {
		a.logger.Debug("%s changed (%s)", ev.Path, ev.Op)
		if ev.Op.Has(watch.OpRemove) {
			return nil
		}
		if err := a.render(path); err != nil {
			a.logger.Warn("render: %v", err)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
