package organizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := moveFile(filepath.Join(dir, "missing"), filepath.Join(dir, "to"))

	var me *MoveError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, SourceNotFound, me.Type)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureFolder(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "Images")

	require.NoError(t, ensureFolder(folder))
	require.NoError(t, ensureFolder(folder), "existing folder is fine")
	assert.DirExists(t, folder)

	blocked := filepath.Join(dir, "Documents")
	require.NoError(t, os.WriteFile(blocked, nil, 0644))
	err := ensureFolder(blocked)

	var me *MoveError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, TargetNotDirectory, me.Type)
}

func TestRemoveFileMissing(t *testing.T) {
	err := removeFile(filepath.Join(t.TempDir(), "gone"))
	var me *MoveError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, SourceNotFound, me.Type)
}
