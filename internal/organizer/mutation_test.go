package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidy/internal/scanner"
)

type recordingRecorder struct {
	moves   [][2]string
	deletes []string
	errs    []string
	fail    error
}

func (r *recordingRecorder) RecordMove(source, dest string) error {
	r.moves = append(r.moves, [2]string{source, dest})
	return r.fail
}

func (r *recordingRecorder) RecordDelete(path string) error {
	r.deletes = append(r.deletes, path)
	return r.fail
}

func (r *recordingRecorder) RecordError(path, operation string, err error) error {
	r.errs = append(r.errs, operation+" "+filepath.Base(path))
	return r.fail
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, ".pdf", NormalizeExtension("pdf"))
	assert.Equal(t, ".pdf", NormalizeExtension(".pdf"))
	assert.Equal(t, ".PDF", NormalizeExtension(" PDF "))
}

func TestMoveDryRunIsCaseInsensitiveAndTouchesNothing(t *testing.T) {
	dir := setupDir(t, "a.pdf", "b.PDF", "c.txt")
	dest := t.TempDir()
	o := newOrganizer(t, dir)
	before := listing(t, dir)

	res := o.MoveFiles(".pdf", dest, true)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.FilesAffected)
	assert.Equal(t, []string{"a.pdf", "b.PDF"}, sorted(res.FilesList))
	assert.Empty(t, res.Errors)
	assert.Equal(t, "2 files would be moved", res.Message)
	assert.Equal(t, before, listing(t, dir))
	assert.Empty(t, listing(t, dest))
}

func TestMoveCommit(t *testing.T) {
	dir := setupDir(t, "a.pdf", "b.PDF", "c.txt")
	dest := t.TempDir()
	rec := &recordingRecorder{}
	o := newOrganizer(t, dir, WithRecorder(rec))

	res := o.MoveFiles("pdf", dest, false)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.FilesAffected)
	assert.Equal(t, "2 files  moved", res.Message)
	assert.Equal(t, []string{"c.txt"}, listing(t, dir))
	assert.Equal(t, []string{"a.pdf", "b.PDF"}, sorted(listing(t, dest)))

	data, err := os.ReadFile(filepath.Join(dest, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "content of a.pdf", string(data))

	assert.Len(t, rec.moves, 2)
	assert.Empty(t, rec.errs)
}

func TestMoveSingleFileMessage(t *testing.T) {
	dir := setupDir(t, "only.csv")
	o := newOrganizer(t, dir)

	res := o.MoveFiles("csv", t.TempDir(), false)
	assert.Equal(t, "1 file  moved", res.Message)
}

func TestMoveIgnoresDirectoriesAndNamesWithoutSuffix(t *testing.T) {
	dir := setupDir(t, ".pdf", "pdf", "x.pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0755))
	o := newOrganizer(t, dir)

	res := o.MoveFiles("pdf", t.TempDir(), true)
	assert.Equal(t, []string{"x.pdf"}, res.FilesList)
}

func TestMovePreconditions(t *testing.T) {
	dir := setupDir(t, "a.pdf", "plain.txt")
	rec := &recordingRecorder{}
	o := newOrganizer(t, dir, WithRecorder(rec))

	tests := []struct {
		name    string
		dest    string
		message string
		errText string
	}{
		{
			name:    "missing destination",
			dest:    filepath.Join(dir, "nowhere"),
			message: "Destination path does not exist",
			errText: "Destination does not exist: " + filepath.Join(dir, "nowhere"),
		},
		{
			name:    "destination is a file",
			dest:    filepath.Join(dir, "plain.txt"),
			message: "Destination path is not a directory",
			errText: "Destination is not a directory: " + filepath.Join(dir, "plain.txt"),
		},
		{
			name:    "same folder",
			dest:    dir,
			message: "Source and destination are the same",
			errText: "Cannot move files to the same folder",
		},
		{
			name:    "same folder through relative components",
			dest:    filepath.Join(dir, ".", "sub", ".."),
			message: "Source and destination are the same",
			errText: "Cannot move files to the same folder",
		},
	}

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, dryRun := range []bool{true, false} {
				res := o.MoveFiles("pdf", tt.dest, dryRun)
				assert.False(t, res.Success)
				assert.Zero(t, res.FilesAffected)
				assert.Empty(t, res.FilesList)
				assert.Equal(t, []string{tt.errText}, res.Errors)
				assert.Equal(t, tt.message, res.Message)
			}
		})
	}

	assert.FileExists(t, filepath.Join(dir, "a.pdf"))
	assert.Empty(t, rec.moves)
}

func TestMoveSameFolderThroughSymlink(t *testing.T) {
	dir := setupDir(t, "a.pdf")
	link := filepath.Join(t.TempDir(), "alias")
	require.NoError(t, os.Symlink(dir, link))
	o := newOrganizer(t, dir)

	res := o.MoveFiles("pdf", link, false)
	assert.False(t, res.Success)
	assert.Equal(t, "Source and destination are the same", res.Message)
	assert.FileExists(t, filepath.Join(dir, "a.pdf"))
}

func TestMovePerFileFailureContinues(t *testing.T) {
	dir := setupDir(t, "a.pdf", "b.pdf")
	dest := t.TempDir()
	// A directory at the target name cannot be replaced by a file.
	require.NoError(t, os.Mkdir(filepath.Join(dest, "a.pdf"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "a.pdf", "inside"), nil, 0644))
	rec := &recordingRecorder{}
	o := newOrganizer(t, dir, WithRecorder(rec))

	res := o.MoveFiles("pdf", dest, false)

	assert.False(t, res.Success)
	assert.Equal(t, []string{"b.pdf"}, res.FilesList)
	assert.Equal(t, 1, res.FilesAffected)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "a.pdf: ")
	assert.Equal(t, "1 file  moved", res.Message)
	assert.Equal(t, []string{"move a.pdf"}, rec.errs)
}

func TestMoveListingPermissionDenied(t *testing.T) {
	skipIfRoot(t)

	dir := setupDir(t, "a.pdf")
	o := newOrganizer(t, dir)
	require.NoError(t, os.Chmod(dir, 0300))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	res := o.MoveFiles("pdf", t.TempDir(), false)
	assert.False(t, res.Success)
	assert.Zero(t, res.FilesAffected)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Permission denied: ")
}

func TestDeleteZeroMatches(t *testing.T) {
	dir := setupDir(t, "a.txt")
	o := newOrganizer(t, dir)

	res := o.DeleteFiles(".tmp", false)
	assert.True(t, res.Success)
	assert.Zero(t, res.FilesAffected)
	assert.Equal(t, []string{}, res.FilesList)
	assert.Equal(t, []string{}, res.Errors)
	assert.Equal(t, "0 files  deleted permanently", res.Message)
}

func TestDeleteDryRunAndCommit(t *testing.T) {
	dir := setupDir(t, "x.tmp", "y.TMP", "keep.txt")
	rec := &recordingRecorder{}
	o := newOrganizer(t, dir, WithRecorder(rec))

	dry := o.DeleteFiles("tmp", true)
	assert.Equal(t, "2 files would be deleted permanently", dry.Message)
	assert.Len(t, listing(t, dir), 3)
	assert.Empty(t, rec.deletes, "dry runs are not recorded")

	res := o.DeleteFiles("tmp", false)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"x.tmp", "y.TMP"}, sorted(res.FilesList))
	assert.Equal(t, []string{"keep.txt"}, listing(t, dir))
	assert.Len(t, rec.deletes, 2)
}

func TestDeletePerFileFailure(t *testing.T) {
	skipIfRoot(t)

	dir := setupDir(t, "a.tmp")
	o := newOrganizer(t, dir)
	// Listing needs read+exec, unlinking needs write.
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	res := o.DeleteFiles("tmp", false)
	assert.False(t, res.Success)
	assert.Zero(t, res.FilesAffected)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "a.tmp: ")
}

func TestPreviewOrganization(t *testing.T) {
	dir := setupDir(t, "report.docx", "image.png", "unknown.xyz")
	o := newOrganizer(t, dir)

	preview, err := o.PreviewOrganization()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"Documents": {"report.docx"},
		"Images":    {"image.png"},
	}, preview.AsMap())
	assert.Equal(t, 2, preview.Total())
	assert.Len(t, listing(t, dir), 3)
}

func TestPreviewFirstMatchWins(t *testing.T) {
	dir := setupDir(t, "photo.JPG")
	cats := testCategories().Merge(categoriesWith("Camera", ".jpg"))
	o, err := New(dir, cats)
	require.NoError(t, err)

	preview, err := o.PreviewOrganization()
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, "Camera", preview[0].Category)
}

func TestPreviewPermissionDeniedIsEmpty(t *testing.T) {
	skipIfRoot(t)

	dir := setupDir(t, "a.pdf")
	o := newOrganizer(t, dir)
	require.NoError(t, os.Chmod(dir, 0300))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	preview, err := o.PreviewOrganization()
	require.NoError(t, err)
	assert.Empty(t, preview)
}

func TestOrganizeDryRunMatchesPreview(t *testing.T) {
	dir := setupDir(t, "a.pdf", "b.docx", "c.png", "d.xyz")
	o := newOrganizer(t, dir)

	res := o.OrganizeFiles(true)
	preview, err := o.PreviewOrganization()
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, preview.Total(), res.FilesAffected)
	assert.Equal(t, "3 files would be organized into 2 categories", res.Message)
	assert.Len(t, listing(t, dir), 4)
}

func TestOrganizeListsFilesInDirectoryOrder(t *testing.T) {
	dir := setupDir(t, "a.pdf", "b.png", "c.docx", "d.jpg", "e.xyz", "f.pdf")
	o := newOrganizer(t, dir)

	entries, err := scanner.Files(dir)
	require.NoError(t, err)
	var want []string
	for _, e := range entries {
		if e.Name != "e.xyz" {
			want = append(want, e.Name)
		}
	}

	dry := o.OrganizeFiles(true)
	assert.Equal(t, want, dry.FilesList)

	res := o.OrganizeFiles(false)
	assert.True(t, res.Success)
	assert.Equal(t, want, res.FilesList)
	assert.Equal(t, "5 files  organized into 2 categories", res.Message)
}

func TestOrganizeCommitIsIdempotent(t *testing.T) {
	dir := setupDir(t, "a.pdf", "b.docx", "c.png", "d.xyz")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Images"), 0755))
	rec := &recordingRecorder{}
	o := newOrganizer(t, dir, WithRecorder(rec))

	res := o.OrganizeFiles(false)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.FilesAffected)
	assert.Equal(t, "3 files  organized into 2 categories", res.Message)
	assert.FileExists(t, filepath.Join(dir, "Documents", "a.pdf"))
	assert.FileExists(t, filepath.Join(dir, "Documents", "b.docx"))
	assert.FileExists(t, filepath.Join(dir, "Images", "c.png"))
	assert.FileExists(t, filepath.Join(dir, "d.xyz"))
	assert.Len(t, rec.moves, 3)

	again := o.OrganizeFiles(false)
	assert.True(t, again.Success)
	assert.Zero(t, again.FilesAffected)
	assert.Equal(t, "0 files  organized into 0 categories", again.Message)
}

func TestOrganizeCategoryCollidesWithFile(t *testing.T) {
	dir := setupDir(t, "report.docx", "a.pdf", "image.png", "photo.jpg")
	// A plain file named like the category blocks its folder.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Images"), []byte("not a folder"), 0644))
	rec := &recordingRecorder{}
	o := newOrganizer(t, dir, WithRecorder(rec))

	res := o.OrganizeFiles(false)

	assert.False(t, res.Success)
	assert.Equal(t, []string{"a.pdf", "report.docx"}, sorted(res.FilesList))
	assert.Equal(t, 2, res.FilesAffected)
	require.Len(t, res.Errors, 2)
	for _, e := range res.Errors {
		assert.Contains(t, e, string(TargetNotDirectory))
	}
	assert.Equal(t, "2 files  organized into 2 categories", res.Message)
	assert.FileExists(t, filepath.Join(dir, "image.png"))
	assert.FileExists(t, filepath.Join(dir, "photo.jpg"))
	assert.Len(t, rec.errs, 2)
}

func TestRecorderFailureDoesNotChangeResult(t *testing.T) {
	dir := setupDir(t, "a.pdf")
	rec := &recordingRecorder{fail: fmt.Errorf("journal unavailable")}
	o := newOrganizer(t, dir, WithRecorder(rec))

	res := o.OrganizeFiles(false)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.FilesAffected)
}

func TestOrganizeSingleFileSingleCategoryMessage(t *testing.T) {
	dir := setupDir(t, "a.pdf")
	o := newOrganizer(t, dir)

	res := o.OrganizeFiles(true)
	assert.Equal(t, "1 file would be organized into 1 category", res.Message)
}

// Dry runs never change the directory listing, whatever the contents.
func TestDryRunImmutability(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25

	properties := gopter.NewProperties(parameters)

	exts := []string{"pdf", "PDF", "png", "docx", "txt", "tmp", "xyz"}

	properties.Property("dry-run move, delete and organize leave the directory unchanged", prop.ForAll(
		func(stems []string, pick int) bool {
			dir, err := os.MkdirTemp("", "tidy-dryrun-*")
			if err != nil {
				t.Logf("Failed to create dir: %v", err)
				return false
			}
			defer os.RemoveAll(dir)

			for i, stem := range stems {
				name := fmt.Sprintf("%s%d.%s", stem, i, exts[(i+pick)%len(exts)])
				if err := os.WriteFile(filepath.Join(dir, name), []byte(stem), 0644); err != nil {
					t.Logf("Failed to create file: %v", err)
					return false
				}
			}

			dest, err := os.MkdirTemp("", "tidy-dest-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dest)

			o, err := New(dir, testCategories())
			if err != nil {
				return false
			}

			before := listing(t, dir)
			ext := exts[pick%len(exts)]

			move := o.MoveFiles(ext, dest, true)
			del := o.DeleteFiles(ext, true)
			org := o.OrganizeFiles(true)

			after := listing(t, dir)
			if len(before) != len(after) {
				return false
			}
			for i := range before {
				if before[i] != after[i] {
					return false
				}
			}

			return move.Success && del.Success && org.Success &&
				move.FilesAffected == del.FilesAffected &&
				len(listing(t, dest)) == 0
		},
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) < 20 })),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
