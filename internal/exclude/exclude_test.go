package exclude

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestShouldExclude(t *testing.T) {
	f := New([]string{".git", "node_modules", "*.part", "", "  "})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"exact name", ".git", true},
		{"substring", ".gitignore", true},
		{"substring in middle", "old_node_modules_backup", true},
		{"glob", "movie.part", true},
		{"full path uses base name", "/home/u/.git", true},
		{"parent directory ignored", "/repo/.git/config", false},
		{"unrelated", "report.pdf", false},
		{"case sensitive", "NODE_MODULES", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ShouldExclude(tt.path))
		})
	}

	assert.Equal(t, []string{".git", "node_modules", "*.part"}, f.Patterns(), "blank patterns are dropped")
}

func TestNilAndEmptyFilter(t *testing.T) {
	var f *Filter
	assert.False(t, f.ShouldExclude("anything"))
	assert.False(t, New(nil).ShouldExclude("anything"))
}

func TestAdd(t *testing.T) {
	f := New(nil)
	f.Add("venv")
	f.Add("")
	assert.Equal(t, []string{"venv"}, f.Patterns())
	assert.True(t, f.ShouldExclude("venv"))
}

// Any name containing a pattern is excluded.
func TestSubstringAlwaysExcludes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("prefix+pattern+suffix is excluded", prop.ForAll(
		func(prefix, pattern, suffix string) bool {
			return New([]string{pattern}).ShouldExclude(prefix + pattern + suffix)
		},
		gen.AlphaString(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
