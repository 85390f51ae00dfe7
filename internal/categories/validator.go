package categories

import (
	"fmt"
	"strings"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// Issue represents a single validation finding.
type Issue struct {
	Field    string             // e.g. "Images[2]"
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []Issue
	Warnings []Issue
	Valid    bool // True if no errors (warnings OK)
}

// Validate checks a category map. Extensions that appear in more than one
// category are reported as warnings only: resolution stays first-match in
// declaration order.
func Validate(m *Map) *ValidationResult {
	result := &ValidationResult{
		Errors:   []Issue{},
		Warnings: []Issue{},
		Valid:    true,
	}

	owner := make(map[string]string)
	for _, c := range m.Categories() {
		if strings.TrimSpace(c.Name) == "" {
			result.Errors = append(result.Errors, Issue{
				Field:    "<unnamed>",
				Message:  "category name cannot be empty",
				Severity: SeverityError,
			})
			continue
		}
		if strings.ContainsAny(c.Name, `/\`) || c.Name == "." || c.Name == ".." {
			result.Errors = append(result.Errors, Issue{
				Field:    c.Name,
				Message:  fmt.Sprintf("category name %q cannot be used as a folder name", c.Name),
				Severity: SeverityError,
			})
		}

		for i, ext := range c.Extensions {
			field := fmt.Sprintf("%s[%d]", c.Name, i)
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				result.Errors = append(result.Errors, Issue{
					Field:    field,
					Message:  fmt.Sprintf("extension %q in %s must start with '.'", ext, c.Name),
					Severity: SeverityError,
				})
				continue
			}
			if first, taken := owner[ext]; taken {
				result.Warnings = append(result.Warnings, Issue{
					Field:    field,
					Message:  fmt.Sprintf("extension %s is listed in %s and %s; %s wins", ext, first, c.Name, first),
					Severity: SeverityWarning,
				})
				continue
			}
			owner[ext] = c.Name
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
