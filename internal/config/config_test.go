package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidy/internal/categories"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ActionInteractive, cfg.DefaultAction)
	assert.False(t, cfg.AutoConfirm)
	assert.Equal(t, []string{".git", "node_modules", "__pycache__", ".DS_Store", "venv"}, cfg.ExcludePatterns)
	assert.Equal(t, 0, cfg.CustomCategories.Len())
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.True(t, cfg.RememberLastFolder)
	assert.True(t, cfg.EnableUndo)
	assert.Equal(t, 10, cfg.MaxUndoHistory)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `{
  "autoConfirm": true,
  "excludePatterns": ["build"],
  "customCategories": {"Ebooks": [".epub", ".MOBI"], "Documents": [".pdf"]},
  "enableUndo": false
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.AutoConfirm)
	assert.False(t, cfg.EnableUndo)
	assert.Equal(t, []string{"build"}, cfg.ExcludePatterns)
	assert.Equal(t, ActionInteractive, cfg.DefaultAction, "missing keys keep defaults")
	assert.Equal(t, 10, cfg.MaxUndoHistory)
	assert.Equal(t, []string{"Ebooks", "Documents"}, cfg.CustomCategories.Names())

	name, ok := cfg.CustomCategories.Classify(".mobi")
	assert.True(t, ok)
	assert.Equal(t, "Ebooks", name)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, IsConfigError(err, FileNotFound))

	_, err = Load(writeConfig(t, `{"autoConfirm": `))
	assert.True(t, IsConfigError(err, InvalidJSON))

	_, err = Load(writeConfig(t, `{"defaultAction": "explode"}`))
	assert.True(t, IsConfigError(err, ValidationError))

	_, err = Load(writeConfig(t, `{"maxUndoHistory": -1}`))
	assert.True(t, IsConfigError(err, ValidationError))

	_, err = Load(writeConfig(t, `{"customCategories": {"Bad": ["epub"]}}`))
	require.Error(t, err)
	assert.True(t, IsConfigError(err, ValidationError))
	assert.Contains(t, err.Error(), "customCategories.Bad[0]")
}

func TestLoadNullCategories(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"customCategories": null}`))
	require.NoError(t, err)
	require.NotNil(t, cfg.CustomCategories)
	assert.Equal(t, 0, cfg.CustomCategories.Len())
}

func TestLoadBlankSettingsGetDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"theme": "", "defaultAction": "", "logLevel": "", "excludePatterns": null}`))
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, ActionInteractive, cfg.DefaultAction)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotNil(t, cfg.ExcludePatterns)
	assert.Empty(t, cfg.ExcludePatterns)
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tidy", "config.json")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ExcludePatterns, again.ExcludePatterns)

	_, err = LoadOrCreate(writeConfig(t, "not json"))
	assert.True(t, IsConfigError(err, InvalidJSON), "broken files are not overwritten")
}

func TestSaveRoundTripKeepsCategoryOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.LastFolder = "/home/user/Downloads"
	cfg.CustomCategories = categories.New([]categories.Category{
		{Name: "Zeta", Extensions: []string{".z"}},
		{Name: "Alpha", Extensions: []string{".a"}},
	})

	require.NoError(t, Save(cfg, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Index(string(data), "Zeta") < strings.Index(string(data), "Alpha"))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/Downloads", loaded.LastFolder)
	assert.Equal(t, []string{"Zeta", "Alpha"}, loaded.CustomCategories.Names())
}

func TestReset(t *testing.T) {
	path := writeConfig(t, `{"autoConfirm": true}`)
	cfg, err := Reset(path)
	require.NoError(t, err)
	assert.False(t, cfg.AutoConfirm)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.AutoConfirm)
}

func TestCategoriesMergesCustomFirst(t *testing.T) {
	cfg := Default()
	cfg.CustomCategories = categories.New([]categories.Category{
		{Name: "Camera", Extensions: []string{".jpg"}},
		{Name: "Documents", Extensions: []string{".md"}},
	})

	m, err := cfg.Categories()
	require.NoError(t, err)
	assert.Equal(t, "Camera", m.Names()[0])

	name, ok := m.Classify(".jpg")
	assert.True(t, ok)
	assert.Equal(t, "Camera", name)

	name, ok = m.Classify(".md")
	assert.True(t, ok)
	assert.Equal(t, "Documents", name)

	_, ok = m.Classify(".docx")
	assert.False(t, ok, "custom Documents replaces the built-in one")
}

func TestCategoriesFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(file, []byte("Notes:\n  - .txt\n"), 0644))

	cfg := Default()
	cfg.CategoriesFile = file
	m, err := cfg.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes"}, m.Names())

	cfg.CategoriesFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = cfg.Categories()
	assert.True(t, categories.IsLoadError(err, categories.FileNotFound))
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "tidy", "config.json"), path)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	path, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "tidy", "config.json"), path)

	cfg := Default()
	assert.Equal(t, filepath.Join("/etc/tidy", "journal"), cfg.JournalDir("/etc/tidy/config.json"))
	cfg.JournalDirectory = "/var/lib/tidy"
	assert.Equal(t, "/var/lib/tidy", cfg.JournalDir("/etc/tidy/config.json"))
	assert.Equal(t, filepath.Join("/etc/tidy", "locks"), LockDir("/etc/tidy/config.json"))
}

func TestExcluder(t *testing.T) {
	f := Default().Excluder()
	assert.True(t, f.ShouldExclude("node_modules"))
	assert.False(t, f.ShouldExclude("report.pdf"))
}
