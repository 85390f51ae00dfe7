// Package search finds files in a directory by case-insensitive substring.
package search

import (
	"os"
	"strings"
	"time"

	"tidy/internal/scanner"
	"tidy/internal/sizefmt"
)

// TimestampFormat matches the classic ctime rendering, e.g. "Mon Jan  2 15:04:05 2006".
const TimestampFormat = time.ANSIC

// Result describes one matching file.
type Result struct {
	Name          string    `json:"name"`
	SizeBytes     int64     `json:"sizeBytes"`
	SizeFormatted string    `json:"sizeFormatted"`
	Modified      string    `json:"modified"` // ModTime rendered with TimestampFormat
	ModTime       time.Time `json:"modTime"`  // Raw modification time for callers that sort
	FullPath      string    `json:"fullPath"`
}

// NewResult builds a Result from a stat'd file.
func NewResult(name, fullPath string, info os.FileInfo) Result {
	return Result{
		Name:          name,
		SizeBytes:     info.Size(),
		SizeFormatted: sizefmt.FormatSize(float64(info.Size())),
		Modified:      info.ModTime().Format(TimestampFormat),
		ModTime:       info.ModTime(),
		FullPath:      fullPath,
	}
}

// Matches reports whether name contains term, ignoring case.
func Matches(name, term string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

// Count returns how many immediate child files of directory contain term.
// A permission error on the directory counts as zero matches.
func Count(directory, term string, filter scanner.Filter) (int, error) {
	files, err := list(directory, filter)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, f := range files {
		if Matches(f.Name, term) {
			count++
		}
	}
	return count, nil
}

// Search returns details for each immediate child file containing term,
// in directory iteration order. Files that cannot be stat'd are left out,
// so the result can be shorter than Count for the same term.
func Search(directory, term string, filter scanner.Filter) ([]Result, error) {
	files, err := list(directory, filter)
	if err != nil {
		return nil, err
	}

	results := []Result{}
	for _, f := range files {
		if !Matches(f.Name, term) {
			continue
		}
		info, err := os.Stat(f.FullPath)
		if err != nil {
			continue
		}
		results = append(results, NewResult(f.Name, f.FullPath, info))
	}
	return results, nil
}

func list(directory string, filter scanner.Filter) ([]scanner.Entry, error) {
	files, err := scanner.Files(directory)
	if err != nil {
		if scanner.IsPermission(err) {
			return nil, nil
		}
		return nil, err
	}
	return filter.Apply(files), nil
}
