package main

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type configReloadedMsg struct {
	config *Config
}

type configErrorMsg struct {
	err error
}

// watchConfig watches the directory holding path, so editors that save by
// renaming a temp file over the config are still seen.
func watchConfig(path string) (*fsnotify.Watcher, error) {
	if path == "" {
		return nil, errors.New("no config path")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return w, nil
}

// waitForConfig blocks until path is written or replaced, then reloads it.
func waitForConfig(w *fsnotify.Watcher, path string) tea.Cmd {
	target := filepath.Clean(path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				config, err := loadConfig(path)
				if err != nil {
					return configErrorMsg{err: err}
				}
				return configReloadedMsg{config: config}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return configErrorMsg{err: err}
			}
		}
	}
}

func (m *model) rewatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForConfig(m.watcher, m.configPath)
}

// applyConfig swaps in a reloaded config. The log file stays as opened at startup.
func (m *model) applyConfig(config *Config) {
	config.LogFile = m.config.LogFile
	*m.config = *config
	m.ctl.SetDefaultLabel(config.DefaultBlockLabel)
	m.ensureCursorInBounds()
	m.log.Info("config reloaded", "path", m.configPath)
	m.setSuccess("Config reloaded")
}
