// Package categories loads the extension-to-category mapping used by tidy.
//
// A Map keeps categories in declaration order. Lookups walk that order and
// return the first category whose extension set contains the extension, so a
// duplicated extension is always resolved in favour of the earlier category.
package categories

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed filetypes.json
var defaultFiletypes []byte

// LoadErrorType represents the type of category loading error.
type LoadErrorType string

const (
	FileNotFound    LoadErrorType = "FILE_NOT_FOUND"
	InvalidFormat   LoadErrorType = "INVALID_FORMAT"
	ValidationError LoadErrorType = "VALIDATION_ERROR"
)

// LoadError represents an error that occurred while loading a category resource.
type LoadError struct {
	Type    LoadErrorType
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("category file not readable: %s", e.Path)
	case InvalidFormat:
		return fmt.Sprintf("invalid category file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("category validation error: %s", e.Message)
	default:
		return fmt.Sprintf("category error: %s", e.Message)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Category is one named group of extensions.
type Category struct {
	Name       string
	Extensions []string
}

// Map is an ordered, immutable mapping from category name to extensions.
type Map struct {
	categories []Category
	sets       []map[string]struct{}
}

// New builds a Map from categories in the given order. Extensions are
// trimmed and lowercased; duplicate extensions inside one category collapse.
func New(cats []Category) *Map {
	m := &Map{}
	for _, c := range cats {
		m.add(c)
	}
	return m
}

func (m *Map) add(c Category) {
	set := make(map[string]struct{}, len(c.Extensions))
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = NormalizeExtension(ext)
		if _, dup := set[ext]; dup {
			continue
		}
		set[ext] = struct{}{}
		exts = append(exts, ext)
	}
	m.categories = append(m.categories, Category{Name: c.Name, Extensions: exts})
	m.sets = append(m.sets, set)
}

// NormalizeExtension trims surrounding whitespace and lowercases ext.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimSpace(ext))
}

// Classify returns the first category containing ext (compared lowercase).
func (m *Map) Classify(ext string) (string, bool) {
	if m == nil || ext == "" {
		return "", false
	}
	ext = strings.ToLower(ext)
	for i, set := range m.sets {
		if _, ok := set[ext]; ok {
			return m.categories[i].Name, true
		}
	}
	return "", false
}

// Categories returns a copy of the categories in declaration order.
func (m *Map) Categories() []Category {
	if m == nil {
		return nil
	}
	out := make([]Category, len(m.categories))
	for i, c := range m.categories {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// Names returns the category names in declaration order.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.categories))
	for i, c := range m.categories {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of categories.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.categories)
}

// Has reports whether a category with the given name exists.
func (m *Map) Has(name string) bool {
	for _, n := range m.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Merge returns a new Map with overrides placed before the receiver's
// categories. A base category sharing a name with an override is dropped,
// so the override replaces it entirely.
func (m *Map) Merge(overrides *Map) *Map {
	merged := &Map{}
	for _, c := range overrides.Categories() {
		merged.add(c)
	}
	for _, c := range m.Categories() {
		if overrides.Has(c.Name) {
			continue
		}
		merged.add(c)
	}
	return merged
}

// Parse decodes a category resource. The resource is a mapping from category
// name to a list of extensions, written as JSON or YAML. Mapping order is kept.
func Parse(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	// An empty document is an empty map.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(nil), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of category names to extension lists", root.Line)
	}

	seen := make(map[string]bool)
	var cats []Category
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: category name must be a string", key.Line)
		}
		if seen[key.Value] {
			return nil, fmt.Errorf("line %d: category %q declared twice", key.Line, key.Value)
		}
		seen[key.Value] = true

		if value.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: extensions for %q must be a list", value.Line, key.Value)
		}
		exts := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: extension in %q must be a string", item.Line, key.Value)
			}
			exts = append(exts, item.Value)
		}
		cats = append(cats, Category{Name: key.Value, Extensions: exts})
	}

	return New(cats), nil
}

// Load reads, parses and validates the category resource at path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Type: FileNotFound, Path: path, Message: err.Error(), Err: err}
	}
	return load(path, data)
}

// Default returns the category mapping embedded in the binary.
func Default() (*Map, error) {
	return load("filetypes.json", defaultFiletypes)
}

func load(path string, data []byte) (*Map, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Type: InvalidFormat, Path: path, Message: err.Error(), Err: err}
	}
	if result := Validate(m); !result.Valid {
		return nil, &LoadError{Type: ValidationError, Path: path, Message: result.Errors[0].Message}
	}
	return m, nil
}

// MarshalJSON writes the map as a JSON object in declaration order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		exts := c.Extensions
		if exts == nil {
			exts = []string{}
		}
		value, err := json.Marshal(exts)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object while keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = Map{}
		return nil
	}
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// IsLoadError reports whether err is a LoadError of the given type.
func IsLoadError(err error, t LoadErrorType) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Type == t
}
