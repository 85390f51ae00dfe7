package organizer

import (
	"fmt"
	"os"

	"tidy/internal/scanner"
)

// OperationResult is the outcome of every mutating call, dry runs included.
// FilesAffected always equals len(FilesList) and Success is true exactly
// when Errors is empty.
type OperationResult struct {
	Success       bool     `json:"success"`
	FilesAffected int      `json:"filesAffected"`
	FilesList     []string `json:"filesList"`
	Errors        []string `json:"errors"`
	Message       string   `json:"message"`
}

func newResult(files, errs []string, message string) OperationResult {
	if files == nil {
		files = []string{}
	}
	if errs == nil {
		errs = []string{}
	}
	return OperationResult{
		Success:       len(errs) == 0,
		FilesAffected: len(files),
		FilesList:     files,
		Errors:        errs,
		Message:       message,
	}
}

// failed builds a result for a precondition failure; nothing was touched.
func failed(message string, errs ...string) OperationResult {
	return newResult(nil, errs, message)
}

// listingError turns a failure to enumerate the bound directory into the
// single synthetic error entry a result carries.
func listingError(err error) string {
	if scanner.IsPermission(err) || os.IsPermission(err) {
		return fmt.Sprintf("Permission denied: %v", err)
	}
	return fmt.Sprintf("Cannot read directory: %v", err)
}

// itemError formats a per-file failure as "<name>: <detail>".
func itemError(name string, err error) string {
	return fmt.Sprintf("%s: %v", name, err)
}

func fileWord(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

func categoryWord(n int) string {
	if n == 1 {
		return "category"
	}
	return "categories"
}

// wouldBe is empty for commits, which leaves a double space in the message.
// Front ends match on these strings, so the spacing is kept as is.
func wouldBe(dryRun bool) string {
	if dryRun {
		return "would be"
	}
	return ""
}

func movedMessage(n int, dryRun bool) string {
	return fmt.Sprintf("%d %s %s moved", n, fileWord(n), wouldBe(dryRun))
}

func deletedMessage(n int, dryRun bool) string {
	return fmt.Sprintf("%d %s %s deleted permanently", n, fileWord(n), wouldBe(dryRun))
}

func organizedMessage(n, categoriesUsed int, dryRun bool) string {
	return fmt.Sprintf("%d %s %s organized into %d %s",
		n, fileWord(n), wouldBe(dryRun), categoriesUsed, categoryWord(categoriesUsed))
}
