package uploads

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"notes.pdf":              "notes.pdf",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\essay.docx`: "essay.docx",
		"my lecture notes.pdf":   "my_lecture_notes.pdf",
		".hidden.png":            "hidden.png",
		"résumé.pdf":             "rsum.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("scan.PDF", DocumentExtensions))
	assert.True(t, Allowed("essay.docx", DocumentExtensions))
	assert.False(t, Allowed("script.sh", DocumentExtensions))
	assert.False(t, Allowed("pdf", DocumentExtensions))
}

func TestSaveListOpenDelete(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)

	stored, err := store.Save("alice", "Week 1.pdf", strings.NewReader("%PDF-1.4\n%test"), DocumentExtensions)
	require.NoError(t, err)
	assert.Equal(t, "Week_1.pdf", stored)

	_, err = store.Save("alice", "b.png", strings.NewReader("png"), DocumentExtensions)
	require.NoError(t, err)

	files, err := store.List("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Week_1.pdf", "b.png"}, files)

	file, contentType, err := store.Open("alice", "Week_1.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "%PDF-1.4\n%test", string(body))
	assert.Equal(t, "application/pdf", contentType)

	require.NoError(t, store.Delete("alice", "Week_1.pdf"))
	require.NoError(t, store.Delete("alice", "Week_1.pdf"))

	_, _, err = store.Open("alice", "Week_1.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)

	files, err = store.List("bob")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)

	_, err = store.Save("alice", "virus.exe", strings.NewReader("MZ"), DocumentExtensions)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	_, err = os.Stat(filepath.Join(root, "alice", "virus.exe"))
	assert.True(t, os.IsNotExist(err))
}

func TestRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open("alice", "../bob/secret.pdf")
	assert.ErrorIs(t, err, ErrInvalidFilename)
	assert.ErrorIs(t, store.Delete("../bob", "x.pdf"), ErrInvalidFilename)
}
