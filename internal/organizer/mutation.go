package organizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tidy/internal/categories"
	"tidy/internal/scanner"
)

// Group is one category of a preview with the files that would move into it.
type Group struct {
	Category string   `json:"category"`
	Files    []string `json:"files"`
}

// Preview is the outcome of PreviewOrganization. Groups appear in the order
// their category was first seen; files keep directory-listing order.
type Preview []Group

// AsMap returns the preview keyed by category.
func (p Preview) AsMap() map[string][]string {
	m := make(map[string][]string, len(p))
	for _, g := range p {
		m[g.Category] = g.Files
	}
	return m
}

// Total returns the number of files across all groups.
func (p Preview) Total() int {
	n := 0
	for _, g := range p {
		n += len(g.Files)
	}
	return n
}

// NormalizeExtension prepends a dot to ext when it has none.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// MoveFiles moves every immediate child file with the given extension into
// dest. With dryRun set nothing is touched and the full selection is
// reported. A missing destination, a destination that is not a directory,
// or a destination equal to the bound directory fails the call before any
// file is selected.
func (o *Organizer) MoveFiles(ext, dest string, dryRun bool) OperationResult {
	ext = NormalizeExtension(ext)

	target, res, ok := o.checkDestination(dest)
	if !ok {
		return res
	}

	selected, err := o.selectByExtension(ext)
	if err != nil {
		o.logger.Error("Cannot list directory", zap.String("path", o.path), zap.Error(err))
		return failed(movedMessage(0, dryRun), listingError(err))
	}

	if dryRun {
		o.logger.Debug("Dry run move",
			zap.String("extension", ext),
			zap.String("destination", target),
			zap.Int("files", len(selected)))
		return newResult(names(selected), nil, movedMessage(len(selected), true))
	}

	var moved, errs []string
	for _, f := range selected {
		to := filepath.Join(target, f.Name)
		if err := moveFile(f.FullPath, to); err != nil {
			errs = append(errs, itemError(f.Name, err))
			o.itemFailed(f.FullPath, "move", err)
			continue
		}
		moved = append(moved, f.Name)
		o.recordMove(f.FullPath, to)
	}

	o.logger.Info("Moved files",
		zap.String("extension", ext),
		zap.String("destination", target),
		zap.Int("moved", len(moved)),
		zap.Int("errors", len(errs)))
	return newResult(moved, errs, movedMessage(len(moved), false))
}

// DeleteFiles permanently removes every immediate child file with the given
// extension. With dryRun set nothing is touched.
func (o *Organizer) DeleteFiles(ext string, dryRun bool) OperationResult {
	ext = NormalizeExtension(ext)

	selected, err := o.selectByExtension(ext)
	if err != nil {
		o.logger.Error("Cannot list directory", zap.String("path", o.path), zap.Error(err))
		return failed(deletedMessage(0, dryRun), listingError(err))
	}

	if dryRun {
		o.logger.Debug("Dry run delete", zap.String("extension", ext), zap.Int("files", len(selected)))
		return newResult(names(selected), nil, deletedMessage(len(selected), true))
	}

	var deleted, errs []string
	for _, f := range selected {
		if err := removeFile(f.FullPath); err != nil {
			errs = append(errs, itemError(f.Name, err))
			o.itemFailed(f.FullPath, "delete", err)
			continue
		}
		deleted = append(deleted, f.Name)
		o.recordDelete(f.FullPath)
	}

	o.logger.Info("Deleted files",
		zap.String("extension", ext),
		zap.Int("deleted", len(deleted)),
		zap.Int("errors", len(errs)))
	return newResult(deleted, errs, deletedMessage(len(deleted), false))
}

// OrganizeFiles moves every immediate child file whose extension belongs to
// a category into a subfolder named after that category, creating it when
// missing. Files with no category are left alone. The category count in the
// message covers every category a selected file belongs to, whether or not
// its move succeeded.
func (o *Organizer) OrganizeFiles(dryRun bool) OperationResult {
	items, err := o.plan()
	if err != nil {
		o.logger.Error("Cannot list directory", zap.String("path", o.path), zap.Error(err))
		return failed(organizedMessage(0, 0, dryRun), listingError(err))
	}
	categoryCount := len(groupPlan(items))

	if dryRun {
		all := make([]string, 0, len(items))
		for _, it := range items {
			all = append(all, it.file.Name)
		}
		o.logger.Debug("Dry run organize", zap.Int("files", len(all)), zap.Int("categories", categoryCount))
		return newResult(all, nil, organizedMessage(len(all), categoryCount, true))
	}

	var moved, errs []string
	for _, it := range items {
		f := it.file
		folder := filepath.Join(o.path, it.category)
		// Checked per file so that one collision fails every file of the
		// category without touching the others.
		if err := ensureFolder(folder); err != nil {
			errs = append(errs, itemError(f.Name, err))
			o.itemFailed(f.FullPath, "organize", err)
			continue
		}
		to := filepath.Join(folder, f.Name)
		if err := moveFile(f.FullPath, to); err != nil {
			errs = append(errs, itemError(f.Name, err))
			o.itemFailed(f.FullPath, "organize", err)
			continue
		}
		moved = append(moved, f.Name)
		o.recordMove(f.FullPath, to)
	}

	o.logger.Info("Organized files",
		zap.String("path", o.path),
		zap.Int("moved", len(moved)),
		zap.Int("categories", categoryCount),
		zap.Int("errors", len(errs)))
	return newResult(moved, errs, organizedMessage(len(moved), categoryCount, false))
}

// PreviewOrganization groups the immediate child files by category without
// touching anything. A directory that cannot be read for lack of permission
// yields an empty preview.
func (o *Organizer) PreviewOrganization() (Preview, error) {
	items, err := o.plan()
	if err != nil {
		if scanner.IsPermission(err) {
			return Preview{}, nil
		}
		return nil, err
	}

	plan := groupPlan(items)
	preview := make(Preview, 0, len(plan))
	for _, g := range plan {
		preview = append(preview, Group{Category: g.category, Files: names(g.files)})
	}
	return preview, nil
}

type planItem struct {
	file     scanner.Entry
	category string
}

type planGroup struct {
	category string
	files    []scanner.Entry
}

// plan classifies the current files in listing order, skipping those with
// no category.
func (o *Organizer) plan() ([]planItem, error) {
	files, err := o.files()
	if err != nil {
		return nil, err
	}

	var items []planItem
	for _, f := range files {
		category, ok := o.categories.Classify(categories.NormalizeExtension(scanner.Suffix(f.Name)))
		if !ok {
			continue
		}
		items = append(items, planItem{file: f, category: category})
	}
	return items, nil
}

// groupPlan groups items by category in first-seen order.
func groupPlan(items []planItem) []planGroup {
	var groups []planGroup
	index := make(map[string]int)
	for _, it := range items {
		i, seen := index[it.category]
		if !seen {
			i = len(groups)
			index[it.category] = i
			groups = append(groups, planGroup{category: it.category})
		}
		groups[i].files = append(groups[i].files, it.file)
	}
	return groups
}

func (o *Organizer) selectByExtension(ext string) ([]scanner.Entry, error) {
	files, err := o.files()
	if err != nil {
		return nil, err
	}

	var selected []scanner.Entry
	for _, f := range files {
		if scanner.MatchesExtension(f.Name, ext) {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

// checkDestination resolves dest and verifies it can receive files.
func (o *Organizer) checkDestination(dest string) (string, OperationResult, bool) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", failed("Destination path does not exist", "Destination does not exist: "+dest), false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", failed("Destination path does not exist", "Destination does not exist: "+dest), false
		}
		return "", failed("Destination path is not accessible", "Cannot access destination: "+err.Error()), false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", failed("Destination path does not exist", "Destination does not exist: "+dest), false
	}
	if !info.IsDir() {
		return "", failed("Destination path is not a directory", "Destination is not a directory: "+dest), false
	}
	if resolved == o.path {
		return "", failed("Source and destination are the same", "Cannot move files to the same folder"), false
	}
	return resolved, OperationResult{}, true
}

func (o *Organizer) itemFailed(path, operation string, err error) {
	o.logger.Warn("Operation failed",
		zap.String("operation", operation),
		zap.String("file", path),
		zap.Error(err))
	if o.recorder == nil {
		return
	}
	if rerr := o.recorder.RecordError(path, operation, err); rerr != nil {
		o.logger.Warn("Failed to record error", zap.String("file", path), zap.Error(rerr))
	}
}

func (o *Organizer) recordMove(from, to string) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordMove(from, to); err != nil {
		o.logger.Warn("Failed to record move", zap.String("file", from), zap.Error(err))
	}
}

func (o *Organizer) recordDelete(path string) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordDelete(path); err != nil {
		o.logger.Warn("Failed to record delete", zap.String("file", path), zap.Error(err))
	}
}

func names(entries []scanner.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
