package search

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
	return dir
}

func TestCountIsCaseInsensitiveSubstring(t *testing.T) {
	dir := setupDir(t, "Report.PDF", "report-notes.txt", "image.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "reports"), 0755))

	count, err := Count(dir, "REPORT", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "directories are not counted")

	count, err = Count(dir, ".pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = Count(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "empty term matches every file")
}

func TestSearchDetails(t *testing.T) {
	dir := setupDir(t, "alpha.txt", "beta.txt", "gamma.md")

	results, err := Search(dir, ".TXT", nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	assert.Equal(t, "alpha.txt", results[0].Name)
	assert.Equal(t, int64(len("alpha.txt")), results[0].SizeBytes)
	assert.Equal(t, "9.00 B", results[0].SizeFormatted)
	assert.Equal(t, filepath.Join(dir, "alpha.txt"), results[0].FullPath)
	assert.Equal(t, results[0].ModTime.Format(TimestampFormat), results[0].Modified)
}

func TestSearchNoMatchesReturnsEmptySlice(t *testing.T) {
	dir := setupDir(t, "a.txt")
	results, err := Search(dir, "zzz", nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchSkipsBrokenSymlinks(t *testing.T) {
	dir := setupDir(t, "keep.log")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.log"), filepath.Join(dir, "dangling.log")))

	results, err := Search(dir, ".log", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "keep.log", results[0].Name)
}

func TestFilterExcludesNames(t *testing.T) {
	dir := setupDir(t, "a.txt", "b.txt")
	skipA := func(name string) bool { return name == "a.txt" }

	count, err := Count(dir, ".txt", skipA)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := Search(dir, ".txt", skipA)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.txt", results[0].Name)
}

func TestPermissionDeniedYieldsEmpty(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := setupDir(t, "a.txt")
	require.NoError(t, os.Chmod(dir, 0000))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	count, err := Count(dir, "a", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	results, err := Search(dir, "a", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMissingDirectoryIsAnError(t *testing.T) {
	_, err := Count(filepath.Join(t.TempDir(), "gone"), "a", nil)
	assert.Error(t, err)
}

// Feature: file-search, Property 1: Count agrees with Search on a quiet directory
func TestCountMatchesSearchProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("Count(term) == len(Search(term))", prop.ForAll(
		func(names []string, term string) bool {
			dir, err := os.MkdirTemp("", "tidy-search-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			for _, name := range names {
				if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
					return false
				}
			}

			count, err := Count(dir, term, nil)
			if err != nil {
				return false
			}
			results, err := Search(dir, term, nil)
			if err != nil {
				return false
			}
			return count == len(results)
		},
		gen.SliceOfN(8, gen.Identifier()).Map(func(ids []string) []string {
			out := make([]string, len(ids))
			for i, id := range ids {
				out[i] = id + ".dat"
			}
			return out
		}),
		gen.AlphaString().Map(func(s string) string {
			if len(s) > 2 {
				return strings.ToUpper(s[:2])
			}
			return s
		}),
	))

	properties.TestingRun(t)
}
