// Package config handles tidy's user configuration: exclude patterns,
// custom categories, confirmation and undo settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tidy/internal/categories"
	"tidy/internal/exclude"
	"tidy/internal/filelock"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
	WriteFailed     ConfigErrorType = "WRITE_FAILED"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	case WriteFailed:
		return fmt.Sprintf("failed to write configuration file %s: %s", e.Path, e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// IsConfigError reports whether err is a ConfigError of the given type.
func IsConfigError(err error, t ConfigErrorType) bool {
	var ce *ConfigError
	return errors.As(err, &ce) && ce.Type == t
}

// What a bare `tidy` invocation does.
const (
	ActionInteractive = "interactive"
	ActionPreview     = "preview"
	ActionOrganize    = "organize"
)

// Colour themes for terminal output.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeNone  = "none"
)

// Configuration holds all settings for tidy.
type Configuration struct {
	DefaultAction      string          `json:"defaultAction"`
	AutoConfirm        bool            `json:"autoConfirm"`
	ExcludePatterns    []string        `json:"excludePatterns"`
	CustomCategories   *categories.Map `json:"customCategories"`
	Theme              string          `json:"theme"`
	RememberLastFolder bool            `json:"rememberLastFolder"`
	LastFolder         string          `json:"lastFolder,omitempty"`
	EnableUndo         bool            `json:"enableUndo"`
	MaxUndoHistory     int             `json:"maxUndoHistory"`
	CategoriesFile     string          `json:"categoriesFile,omitempty"`
	JournalDirectory   string          `json:"journalDirectory,omitempty"`
	LogLevel           string          `json:"logLevel"`
}

// Default returns the configuration used when no file exists. Keys missing
// from a loaded file keep these values.
func Default() *Configuration {
	return &Configuration{
		DefaultAction:      ActionInteractive,
		AutoConfirm:        false,
		ExcludePatterns:    []string{".git", "node_modules", "__pycache__", ".DS_Store", "venv"},
		CustomCategories:   categories.New(nil),
		Theme:              ThemeDark,
		RememberLastFolder: true,
		EnableUndo:         true,
		MaxUndoHistory:     10,
		LogLevel:           "warn",
	}
}

// ApplyDefaults fills settings a file left blank, such as "theme": "".
func (c *Configuration) ApplyDefaults() {
	defaults := Default()
	if c.DefaultAction == "" {
		c.DefaultAction = defaults.DefaultAction
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.CustomCategories == nil {
		c.CustomCategories = defaults.CustomCategories
	}
	if c.ExcludePatterns == nil {
		c.ExcludePatterns = []string{}
	}
}

// Validate checks the settings that would make tidy misbehave.
func (c *Configuration) Validate() error {
	switch c.DefaultAction {
	case ActionInteractive, ActionPreview, ActionOrganize:
	default:
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("defaultAction must be %q, %q or %q, got %q", ActionInteractive, ActionPreview, ActionOrganize, c.DefaultAction),
		}
	}

	if c.MaxUndoHistory < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "maxUndoHistory cannot be negative",
		}
	}

	if !validLogLevels[c.LogLevel] {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("logLevel %q is not one of debug, info, warn, error", c.LogLevel),
		}
	}

	if c.CustomCategories != nil {
		if result := categories.Validate(c.CustomCategories); !result.Valid {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("customCategories.%s: %s", result.Errors[0].Field, result.Errors[0].Message),
			}
		}
	}

	return nil
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Excluder returns the filter built from ExcludePatterns.
func (c *Configuration) Excluder() *exclude.Filter {
	return exclude.New(c.ExcludePatterns)
}

// Categories returns the category map to organize with: CategoriesFile, or
// the built-in mapping when it is empty, with CustomCategories in front.
func (c *Configuration) Categories() (*categories.Map, error) {
	var (
		base *categories.Map
		err  error
	)
	if c.CategoriesFile != "" {
		base, err = categories.Load(c.CategoriesFile)
	} else {
		base, err = categories.Default()
	}
	if err != nil {
		return nil, err
	}

	if c.CustomCategories == nil || c.CustomCategories.Len() == 0 {
		return base, nil
	}
	return base.Merge(c.CustomCategories), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/tidy/config.json, falling back to
// ~/.config/tidy/config.json.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tidy", "config.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tidy", "config.json"), nil
}

// JournalDir returns where the undo journal lives for a config file at
// configPath.
func (c *Configuration) JournalDir(configPath string) string {
	if c.JournalDirectory != "" {
		return c.JournalDirectory
	}
	return filepath.Join(filepath.Dir(configPath), "journal")
}

// LockDir returns where per-directory lock files live for a config file at
// configPath.
func LockDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "locks")
}

// Read parses a configuration file without validating it. Keys absent
// from the file keep their defaults.
func Read(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: filePath}
		}
		return nil, &ConfigError{Type: FileNotFound, Path: filePath, Message: err.Error()}
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, &ConfigError{Type: InvalidJSON, Path: filePath, Message: err.Error()}
	}
	config.ApplyDefaults()
	return config, nil
}

// Load reads a configuration file and validates it.
func Load(filePath string) (*Configuration, error) {
	config, err := Read(filePath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadOrCreate loads the configuration at filePath, writing the defaults
// there first when the file does not exist.
func LoadOrCreate(filePath string) (*Configuration, error) {
	config, err := Load(filePath)
	if err == nil {
		return config, nil
	}
	if !IsConfigError(err, FileNotFound) {
		return nil, err
	}
	if _, statErr := os.Stat(filePath); !os.IsNotExist(statErr) {
		return nil, err
	}

	config = Default()
	if err := Save(config, filePath); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration atomically under a lock next to the file.
func Save(config *Configuration, filePath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return &ConfigError{Type: InvalidJSON, Path: filePath, Message: err.Error()}
	}
	data = append(data, '\n')

	if err := filelock.LockAndWrite(filePath, data, 0644); err != nil {
		return &ConfigError{Type: WriteFailed, Path: filePath, Message: err.Error()}
	}
	return nil
}

// Reset overwrites the file at filePath with the defaults.
func Reset(filePath string) (*Configuration, error) {
	config := Default()
	if err := Save(config, filePath); err != nil {
		return nil, err
	}
	return config, nil
}
