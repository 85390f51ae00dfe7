package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidy/internal/categories"
)

func fields(issues []ConfigValidationError) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func TestValidateConfigDefaultsAreClean(t *testing.T) {
	result := ValidateConfig(Default())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateConfigCollectsEverything(t *testing.T) {
	dir := t.TempDir()
	notDir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notDir, nil, 0644))

	cfg := Default()
	cfg.DefaultAction = "sometimes"
	cfg.Theme = "neon"
	cfg.MaxUndoHistory = -3
	cfg.LogLevel = "loud"
	cfg.CategoriesFile = filepath.Join(dir, "missing.json")
	cfg.LastFolder = filepath.Join(dir, "gone")
	cfg.JournalDirectory = notDir
	cfg.ExcludePatterns = []string{".git", "", ".git"}
	cfg.CustomCategories = categories.New([]categories.Category{
		{Name: "A", Extensions: []string{".x"}},
		{Name: "B", Extensions: []string{"x", ".x"}},
	})

	result := ValidateConfig(cfg)
	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		"defaultAction",
		"maxUndoHistory",
		"logLevel",
		"categoriesFile",
		"journalDirectory",
		"customCategories.B[0]",
	}, fields(result.Errors))
	assert.ElementsMatch(t, []string{
		"theme",
		"lastFolder",
		"excludePatterns[1]",
		"excludePatterns[2]",
		"customCategories.B[1]",
	}, fields(result.Warnings))
}

func TestValidateUnlimitedHistoryWarning(t *testing.T) {
	cfg := Default()
	cfg.MaxUndoHistory = 0
	result := ValidateConfig(cfg)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"maxUndoHistory"}, fields(result.Warnings))

	cfg.EnableUndo = false
	assert.Empty(t, ValidateConfig(cfg).Warnings)
}

func TestValidatePathsCategoriesFileIsDirectory(t *testing.T) {
	cfg := Default()
	cfg.CategoriesFile = t.TempDir()
	issues := ValidatePaths(cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}
