package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/loader"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/ui"
)

var errNotTerminal = errors.New("stdout is not a terminal; use `mmv export` or `mmv layout` for batch output")

func runTUI(ctx context.Context, opts *rootOptions, watchFlag bool) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	path, err := opts.dataPath(cfg)
	if err != nil {
		return err
	}

	// State lives next to the project config, or next to the document when
	// there is no project.
	stateRoot := cfg.Root()
	if stateRoot == "" {
		stateRoot = filepath.Dir(path)
	}
	logPath := cfg.LogFile
	if logPath != "" && !filepath.IsAbs(logPath) {
		logPath = filepath.Join(stateRoot, logPath)
	}
	logger, closeLog, err := openLogFile(logPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if logPath != "" {
		if err := loader.EnsureStateDirIgnored(stateRoot); err != nil {
			logger.Warn("could not update .gitignore", "error", err)
		}
	}

	app := mindmap.New(mindmap.WithLogger(logger))
	model := ui.NewModel(app, ui.Options{
		Config:   cfg,
		DataPath: path,
		Logger:   logger,
	})

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if ctx != nil {
		progOpts = append(progOpts, tea.WithContext(ctx))
	}
	p := tea.NewProgram(model, progOpts...)

	if watchFlag || cfg.Watch {
		w, err := loader.NewDocumentWatcher(loader.WatcherConfig{
			Path:   path,
			Notify: func(msg any) { p.Send(msg) },
			Logger: logger,
		})
		if err != nil {
			logger.Warn("file watching disabled", "path", path, "error", err)
		} else {
			if err := w.Start(); err != nil {
				logger.Warn("file watching disabled", "path", path, "error", err)
			} else {
				defer w.Stop()
				logger.Info("watching document", "path", path)
			}
		}
	}

	logger.Info("starting viewer", "data", path, "version", versionString())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx != nil && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
