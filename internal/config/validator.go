package config

import (
	"fmt"
	"os"
	"strings"

	"tidy/internal/categories"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             `json:"field"`    // Config field with issue (e.g., "excludePatterns[0]")
	Message  string             `json:"message"`  // Human-readable description
	Severity ValidationSeverity `json:"severity"` // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError `json:"errors"`
	Warnings []ConfigValidationError `json:"warnings"`
	Valid    bool                    `json:"valid"` // True if no errors (warnings OK)
}

func (r *ValidationResult) add(issues []ConfigValidationError) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// ValidateConfig checks the configuration and returns every finding,
// including the ones Validate stops at.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
	}

	result.add(ValidateSettings(cfg))
	result.add(ValidatePaths(cfg))
	result.add(ValidateExcludePatterns(cfg))
	result.add(ValidateCustomCategories(cfg))

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateSettings checks enumerated and numeric settings.
func ValidateSettings(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError

	switch cfg.DefaultAction {
	case ActionInteractive, ActionPreview, ActionOrganize:
	default:
		issues = append(issues, ConfigValidationError{
			Field:    "defaultAction",
			Message:  fmt.Sprintf("unknown action %q; use interactive, preview or organize", cfg.DefaultAction),
			Severity: SeverityError,
		})
	}

	switch cfg.Theme {
	case ThemeDark, ThemeLight, ThemeNone:
	default:
		issues = append(issues, ConfigValidationError{
			Field:    "theme",
			Message:  fmt.Sprintf("unknown theme %q; falling back to %q", cfg.Theme, ThemeDark),
			Severity: SeverityWarning,
		})
	}

	if cfg.MaxUndoHistory < 0 {
		issues = append(issues, ConfigValidationError{
			Field:    "maxUndoHistory",
			Message:  "maxUndoHistory cannot be negative",
			Severity: SeverityError,
		})
	} else if cfg.EnableUndo && cfg.MaxUndoHistory == 0 {
		issues = append(issues, ConfigValidationError{
			Field:    "maxUndoHistory",
			Message:  "0 keeps the undo history forever",
			Severity: SeverityWarning,
		})
	}

	if !validLogLevels[cfg.LogLevel] {
		issues = append(issues, ConfigValidationError{
			Field:    "logLevel",
			Message:  fmt.Sprintf("unknown log level %q", cfg.LogLevel),
			Severity: SeverityError,
		})
	}

	return issues
}

// ValidatePaths checks the paths the configuration points at.
func ValidatePaths(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError

	if cfg.CategoriesFile != "" {
		info, err := os.Stat(cfg.CategoriesFile)
		switch {
		case os.IsNotExist(err):
			issues = append(issues, ConfigValidationError{
				Field:    "categoriesFile",
				Message:  "file does not exist: " + cfg.CategoriesFile,
				Severity: SeverityError,
			})
		case err != nil:
			issues = append(issues, ConfigValidationError{
				Field:    "categoriesFile",
				Message:  "error accessing file: " + err.Error(),
				Severity: SeverityError,
			})
		case info.IsDir():
			issues = append(issues, ConfigValidationError{
				Field:    "categoriesFile",
				Message:  "path is a directory: " + cfg.CategoriesFile,
				Severity: SeverityError,
			})
		}
	}

	if cfg.LastFolder != "" {
		info, err := os.Stat(cfg.LastFolder)
		if err != nil || !info.IsDir() {
			issues = append(issues, ConfigValidationError{
				Field:    "lastFolder",
				Message:  "remembered folder is gone: " + cfg.LastFolder,
				Severity: SeverityWarning,
			})
		}
	}

	if cfg.JournalDirectory != "" {
		if info, err := os.Stat(cfg.JournalDirectory); err == nil && !info.IsDir() {
			issues = append(issues, ConfigValidationError{
				Field:    "journalDirectory",
				Message:  "path exists but is not a directory: " + cfg.JournalDirectory,
				Severity: SeverityError,
			})
		}
	}

	return issues
}

// ValidateExcludePatterns flags empty and repeated patterns.
func ValidateExcludePatterns(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError

	seen := make(map[string]int)
	for i, pattern := range cfg.ExcludePatterns {
		field := fmt.Sprintf("excludePatterns[%d]", i)
		if strings.TrimSpace(pattern) == "" {
			issues = append(issues, ConfigValidationError{
				Field:    field,
				Message:  "empty pattern is ignored",
				Severity: SeverityWarning,
			})
			continue
		}
		if first, dup := seen[pattern]; dup {
			issues = append(issues, ConfigValidationError{
				Field:    field,
				Message:  fmt.Sprintf("duplicate of excludePatterns[%d]", first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[pattern] = i
	}

	return issues
}

// ValidateCustomCategories reports category map findings under the
// customCategories field.
func ValidateCustomCategories(cfg *Configuration) []ConfigValidationError {
	if cfg.CustomCategories == nil {
		return nil
	}

	result := categories.Validate(cfg.CustomCategories)
	issues := make([]ConfigValidationError, 0, len(result.Errors)+len(result.Warnings))
	for _, group := range [][]categories.Issue{result.Errors, result.Warnings} {
		for _, issue := range group {
			issues = append(issues, ConfigValidationError{
				Field:    "customCategories." + issue.Field,
				Message:  issue.Message,
				Severity: ValidationSeverity(issue.Severity),
			})
		}
	}
	return issues
}
