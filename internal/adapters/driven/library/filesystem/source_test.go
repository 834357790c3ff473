package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSource_Collect_WalksDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "paper.pdf", "%PDF")
	writeFile(t, dir, "notes/summary.md", "# notes")
	writeFile(t, dir, ".hidden/secret.txt", "skip me")
	writeFile(t, dir, ".DS_Store", "skip me too")

	source := NewSource()
	files, err := source.Collect(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "summary.md", files[0].DisplayName)
	assert.Equal(t, "text/markdown", files[0].MIMEType)
	assert.Equal(t, "paper.pdf", files[1].DisplayName)
	assert.Equal(t, "application/pdf", files[1].MIMEType)
}

func TestSource_Collect_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "thesis.docx", "doc")

	source := NewSource()
	files, err := source.Collect(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0].Path)
	assert.Contains(t, files[0].MIMEType, "officedocument")
}

func TestSource_Collect_MissingPath(t *testing.T) {
	source := NewSource()

	_, err := source.Collect(context.Background(), "/does/not/exist")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSource_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "paper.pdf", "%PDF-1.4 content")

	source := NewSource()
	content, err := source.ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(content))
}

func TestSource_Watch_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	source := NewSource()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := source.Watch(ctx, dir)
	require.NoError(t, err)

	writeFile(t, dir, "new.pdf", "%PDF")

	select {
	case changed := <-changes:
		assert.Equal(t, dir, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}
}

func TestSource_Watch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	source := NewSource()
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := source.Watch(ctx, dir)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-changes:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("watch channel did not close")
	}
}

func TestGuessMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", guessMIMEType("a/b.PDF"))
	assert.Equal(t, "text/plain", guessMIMEType("readme.txt"))
	assert.Equal(t, "text/html", guessMIMEType("snapshot.htm"))
	assert.Equal(t, "application/octet-stream", guessMIMEType("archive.tar.gz"))
}
