package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"blockdiag/controller"
	"blockdiag/diagram"
)

var version = "dev"

var (
	configPath string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:   "blockdiag",
	Short: "Terminal block-diagram editor",
	Long: `blockdiag places typed blocks with master, slave and bidirectional ports on a canvas,
connects them with named directional links and keeps a connection table in sync.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if logPath != "" {
			config.LogFile = logPath
		}

		logger, closeLog, err := setupLogger(config.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		m := initialModel(config, logger)
		if w, err := watchConfig(configPath); err != nil {
			logger.Warn("config reload disabled", "path", configPath, "err", err)
		} else {
			defer w.Close()
			m.configPath, m.watcher = configPath, w
		}

		p := tea.NewProgram(
			m,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run editor: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blockdiag %s\n", version)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "config file")
	rootCmd.Flags().StringVar(&logPath, "log", "", "write debug log to this file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger routes slog through bubbletea's log file. Without a path,
// everything is discarded since the terminal belongs to the UI.
func setupLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := tea.LogToFile(path, "blockdiag")
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func initialModel(config *Config, logger *slog.Logger) model {
	graph := diagram.NewGraph()
	m := model{
		graph:      graph,
		table:      diagram.NewConnectionTable(graph),
		config:     config,
		log:        logger,
		mode:       ModeNormal,
		moveNodeID: -1,
		dragNodeID: -1,
		lastClickN: -1,
		sortColumn: -1,
		connTable:  newConnTable(),
		status:     &statusMessage{},
	}
	m.ctl = controller.New(graph,
		controller.WithLogger(logger),
		controller.WithReporter(m.status.fromReport),
		controller.WithDefaultLabel(config.DefaultBlockLabel),
	)
	graph.Subscribe(func(b diagram.Batch) {
		logger.Debug("graph changed", "events", b.Kinds())
	})
	m.refreshTable()
	return m
}
