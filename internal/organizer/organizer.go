// Package organizer is the engine behind tidy. An Organizer is bound to one
// directory and one category map for its whole life; it holds no other state
// and re-reads the filesystem on every call.
package organizer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tidy/internal/categories"
	"tidy/internal/meta"
	"tidy/internal/scanner"
	"tidy/internal/search"
)

// ConstructionError is returned when an Organizer cannot be built.
type ConstructionError struct {
	Path string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot organize %s: %v", e.Path, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Recorder receives every committed change. Dry runs are never recorded.
type Recorder interface {
	RecordMove(source, dest string) error
	RecordDelete(path string) error
	RecordError(path, operation string, err error) error
}

// Organizer classifies, previews and mutates the immediate children of a
// single directory. Calls are synchronous and not safe to interleave with
// other writers of the same directory: each call lists the directory from
// scratch and holds no lock between calls.
type Organizer struct {
	path       string
	categories *categories.Map
	filter     scanner.Filter
	recorder   Recorder
	logger     *zap.Logger
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithExclude drops children for which skip returns true from every
// listing-based operation. Without it all immediate children are considered.
func WithExclude(skip func(name string) bool) Option {
	return func(o *Organizer) {
		o.filter = skip
	}
}

// WithRecorder reports committed moves, deletions and per-item failures to r.
func WithRecorder(r Recorder) Option {
	return func(o *Organizer) {
		o.recorder = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *Organizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New binds an Organizer to path, which must be an existing directory.
// The path is made absolute and symlink-resolved once and never re-checked.
func New(path string, cats *categories.Map, opts ...Option) (*Organizer, error) {
	if cats == nil {
		return nil, &ConstructionError{Path: path, Err: errors.New("category map is required")}
	}

	resolved, err := scanner.ResolveDirectory(path)
	if err != nil {
		return nil, &ConstructionError{Path: path, Err: err}
	}

	o := &Organizer{
		path:       resolved,
		categories: cats,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// NewFromFile is New with the category map read from categoriesPath.
// An empty categoriesPath selects the built-in mapping.
func NewFromFile(path, categoriesPath string, opts ...Option) (*Organizer, error) {
	var (
		cats *categories.Map
		err  error
	)
	if categoriesPath == "" {
		cats, err = categories.Default()
	} else {
		cats, err = categories.Load(categoriesPath)
	}
	if err != nil {
		return nil, &ConstructionError{Path: path, Err: err}
	}
	return New(path, cats, opts...)
}

// Path returns the bound directory.
func (o *Organizer) Path() string {
	return o.path
}

// Categories returns the category map the Organizer classifies with.
func (o *Organizer) Categories() *categories.Map {
	return o.categories
}

// GetMeta walks the bound directory tree and returns fresh metadata.
func (o *Organizer) GetMeta() (*meta.FolderMeta, error) {
	return meta.Read(o.path)
}

// FileCount counts immediate child files whose name contains term, ignoring case.
func (o *Organizer) FileCount(term string) (int, error) {
	return search.Count(o.path, term, o.filter)
}

// SearchFiles lists immediate child files whose name contains term, ignoring case.
func (o *Organizer) SearchFiles(term string) ([]search.Result, error) {
	return search.Search(o.path, term, o.filter)
}

// CountNamedDirs counts directories called name anywhere under the bound directory.
func (o *Organizer) CountNamedDirs(name string) (int, error) {
	return meta.CountNamedDirs(o.path, name)
}

// LargestFiles lists files anywhere under the bound directory, biggest first.
func (o *Organizer) LargestFiles(limit int) ([]search.Result, error) {
	return meta.LargestFiles(o.path, limit)
}

// files lists the regular files directly inside the bound directory,
// after the exclude filter.
func (o *Organizer) files() ([]scanner.Entry, error) {
	files, err := scanner.Files(o.path)
	if err != nil {
		return nil, err
	}
	return o.filter.Apply(files), nil
}
