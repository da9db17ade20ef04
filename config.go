package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"mindterm/layout"
)

// Config holds user preferences. Sources are applied in order: defaults,
// ~/.mindtermrc, the YAML config file, MINDTERM_* environment variables and
// finally command-line flags.
type Config struct {
	SaveDirectory   string  `yaml:"save_directory"`
	Confirmations   bool    `yaml:"confirmations"`
	SystemClipboard bool    `yaml:"system_clipboard"`
	Direction       string  `yaml:"direction" validate:"oneof=LR RL TB BT"`
	LevelGap        float64 `yaml:"level_gap" validate:"gte=1,lte=40"`
	SiblingGap      float64 `yaml:"sibling_gap" validate:"gte=0,lte=20"`
	HistoryLimit    int     `yaml:"history_limit" validate:"gte=1,lte=10000"`
	FontSize        float64 `yaml:"font_size" validate:"gt=0,lte=96"`
	LogLevel        string  `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile         string  `yaml:"log_file"`
}

func defaultConfig() *Config {
	cell := layout.CellConfig()
	return &Config{
		Confirmations:   true,
		SystemClipboard: true,
		Direction:       cell.Direction.String(),
		LevelGap:        cell.LevelGap,
		SiblingGap:      cell.SiblingGap,
		HistoryLimit:    100,
		FontSize:        14,
		LogLevel:        "info",
	}
}

// configSources says where loadConfig looks. Empty paths are skipped.
type configSources struct {
	RCPath   string
	YAMLPath string
	Getenv   func(string) string
}

func defaultSources(yamlPath string) configSources {
	src := configSources{YAMLPath: yamlPath, Getenv: os.Getenv}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return src
	}
	src.RCPath = filepath.Join(homeDir, ".mindtermrc")
	if src.YAMLPath == "" {
		src.YAMLPath = os.Getenv("MINDTERM_CONFIG")
	}
	if src.YAMLPath == "" {
		candidate := filepath.Join(homeDir, ".config", "mindterm", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			src.YAMLPath = candidate
		}
	}
	return src
}

var validate = validator.New()

func loadConfig(src configSources) (*Config, error) {
	config := defaultConfig()
	if src.RCPath != "" {
		if err := config.applyRC(src.RCPath); err != nil {
			return nil, err
		}
	}
	if src.YAMLPath != "" {
		if err := config.applyYAML(src.YAMLPath); err != nil {
			return nil, err
		}
	}
	if src.Getenv != nil {
		config.applyEnv(src.Getenv)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyRC reads key=value lines. A missing file is not an error and values
// that fail to parse are ignored.
func (c *Config) applyRC(path string) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		c.set(strings.ToLower(strings.TrimSpace(parts[0])), strings.TrimSpace(parts[1]))
	}
	return scanner.Err()
}

func (c *Config) set(key, value string) {
	switch key {
	case "savedirectory", "save_directory", "savedir":
		c.SaveDirectory = expandPath(value)
	case "confirmations", "confirm":
		c.Confirmations = parseBool(value, c.Confirmations)
	case "systemclipboard", "system_clipboard", "clipboard":
		c.SystemClipboard = parseBool(value, c.SystemClipboard)
	case "direction", "dir":
		c.Direction = strings.ToUpper(value)
	case "levelgap", "level_gap":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			c.LevelGap = f
		}
	case "siblinggap", "sibling_gap":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			c.SiblingGap = f
		}
	case "historylimit", "history_limit", "undo_levels":
		if n, err := strconv.Atoi(value); err == nil {
			c.HistoryLimit = n
		}
	case "fontsize", "font_size":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			c.FontSize = f
		}
	case "loglevel", "log_level":
		c.LogLevel = strings.ToLower(value)
	case "logfile", "log_file":
		c.LogFile = expandPath(value)
	}
}

func (c *Config) applyYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Direction = strings.ToUpper(strings.TrimSpace(c.Direction))
	c.SaveDirectory = expandPath(c.SaveDirectory)
	c.LogFile = expandPath(c.LogFile)
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	c.SaveDirectory = expandPath(getEnv(getenv, "MINDTERM_SAVE_DIRECTORY", c.SaveDirectory))
	c.Confirmations = getEnvBool(getenv, "MINDTERM_CONFIRMATIONS", c.Confirmations)
	c.SystemClipboard = getEnvBool(getenv, "MINDTERM_SYSTEM_CLIPBOARD", c.SystemClipboard)
	c.Direction = strings.ToUpper(getEnv(getenv, "MINDTERM_DIRECTION", c.Direction))
	c.LevelGap = getEnvFloat(getenv, "MINDTERM_LEVEL_GAP", c.LevelGap)
	c.SiblingGap = getEnvFloat(getenv, "MINDTERM_SIBLING_GAP", c.SiblingGap)
	c.HistoryLimit = getEnvInt(getenv, "MINDTERM_HISTORY_LIMIT", c.HistoryLimit)
	c.FontSize = getEnvFloat(getenv, "MINDTERM_FONT_SIZE", c.FontSize)
	c.LogLevel = strings.ToLower(getEnv(getenv, "MINDTERM_LOG_LEVEL", c.LogLevel))
	c.LogFile = expandPath(getEnv(getenv, "MINDTERM_LOG_FILE", c.LogFile))
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Layout converts the layout preferences. It assumes Validate passed.
func (c *Config) Layout() layout.Config {
	dir, err := layout.ParseDirection(c.Direction)
	if err != nil {
		dir = layout.LeftToRight
	}
	return layout.Config{Direction: dir, LevelGap: c.LevelGap, SiblingGap: c.SiblingGap}
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
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

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return fallback
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(getenv func(string) string, key string, defaultValue bool) bool {
	value := getenv(key)
	if value == "" {
		return defaultValue
	}
	return parseBool(value, defaultValue)
}

func getEnvInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(getenv func(string) string, key string, defaultValue float64) float64 {
	if value := getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
