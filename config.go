package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = ".blockdiag.yaml"

type Config struct {
	SaveDirectory     string  `yaml:"save_directory"`
	Confirmations     bool    `yaml:"confirmations"`
	DefaultBlockLabel string  `yaml:"default_block_label"`
	LogFile           string  `yaml:"log_file"`
	CellWidth         float64 `yaml:"cell_width"`
	CellHeight        float64 `yaml:"cell_height"`
}

func defaultConfig() *Config {
	return &Config{
		Confirmations:     true,
		DefaultBlockLabel: "New Block",
		CellWidth:         defaultCellWidth,
		CellHeight:        defaultCellHeight,
	}
}

// defaultConfigPath is ~/.blockdiag.yaml, or empty when there is no home directory.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, configFileName)
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if config.SaveDirectory != "" {
		config.SaveDirectory = expandPath(config.SaveDirectory)
	}
	if config.LogFile != "" {
		config.LogFile = expandPath(config.LogFile)
	}
	if config.CellWidth <= 0 {
		config.CellWidth = defaultCellWidth
	}
	if config.CellHeight <= 0 {
		config.CellHeight = defaultCellHeight
	}
	if strings.TrimSpace(config.DefaultBlockLabel) == "" {
		config.DefaultBlockLabel = "New Block"
	}
	return config, nil
}

func expandPath(value string) string {
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
