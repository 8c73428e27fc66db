package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not available, skipping")
	}
}

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "export"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export", "journal.csv"), []byte("entry,date\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("not staged"), 0o644))

	hash, err := Commit(ctx, dir, "snapshot: test", testAuthor, "export")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "snapshot: test|Test Author <test@example.com>")

	dirty, err := HasChanges(ctx, dir, "scratch.txt")
	require.NoError(t, err)
	assert.True(t, dirty, "paths outside the snapshot stay uncommitted")
}

func TestCommit_NothingChanged(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x\n"), 0o644))

	first, err := Commit(ctx, dir, "first", testAuthor, "a.csv")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := Commit(ctx, dir, "second", testAuthor, "a.csv")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestAuthorString(t *testing.T) {
	assert.Equal(t, "Test Author <test@example.com>", testAuthor.String())
}
