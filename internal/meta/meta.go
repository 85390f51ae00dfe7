// Package meta computes read-only statistics about a directory tree.
package meta

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tidy/internal/search"
	"tidy/internal/sizefmt"
)

// CreationTimeFormat renders timestamps as "<Mon> <DD> <YYYY>, <HH:MM>".
// The day is space padded, matching ctime output.
const CreationTimeFormat = "Jan _2 2006, 15:04"

// FolderMeta summarises a directory tree. It is recomputed on every call.
type FolderMeta struct {
	SizeBytes     int64     `json:"sizeBytes"`
	SizeFormatted string    `json:"sizeFormatted"`
	FileCount     int       `json:"fileCount"`
	FolderCount   int       `json:"folderCount"`
	CreationTime  string    `json:"creationTime"`
	Created       time.Time `json:"created"`
	Path          string    `json:"path"`
}

// Read walks root recursively and aggregates its metadata.
//
// FolderCount is the number of distinct directory names seen anywhere below
// root. Symlinked files are ignored entirely; a symlink to a directory counts
// as a folder name but is not descended into. Files that cannot be stat'd,
// and subdirectories that cannot be read, are skipped silently. SizeBytes
// includes root's own size as reported by the filesystem.
func Read(root string) (*FolderMeta, error) {
	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	total := rootInfo.Size()
	fileCount := 0
	folderNames := make(map[string]struct{})

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree or vanished entry
			return nil
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			folderNames[d.Name()] = struct{}{}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				folderNames[d.Name()] = struct{}{}
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		fileCount++
		total += info.Size()
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	created := creationTime(root, rootInfo)

	return &FolderMeta{
		SizeBytes:     total,
		SizeFormatted: sizefmt.FormatFolderSize(total),
		FileCount:     fileCount,
		FolderCount:   len(folderNames),
		CreationTime:  created.Local().Format(CreationTimeFormat),
		Created:       created,
		Path:          root,
	}, nil
}

// CountNamedDirs counts directories called name anywhere below root,
// root itself excluded. Matches are descended into, so nested
// occurrences (a/node_modules/b/node_modules) each count.
func CountNamedDirs(root, name string) (int, error) {
	if _, err := os.Stat(root); err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path != root && d.IsDir() && d.Name() == name {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return count, nil
}

// LargestFiles lists regular files below root, biggest first. Ties are
// broken by path. A limit of zero or less returns every file.
func LargestFiles(root string, limit int) ([]search.Result, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	files := []search.Result{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, search.NewResult(d.Name(), path, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].SizeBytes != files[j].SizeBytes {
			return files[i].SizeBytes > files[j].SizeBytes
		}
		return files[i].FullPath < files[j].FullPath
	})

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}
