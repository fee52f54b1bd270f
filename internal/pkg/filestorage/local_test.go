package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing an encoded form
func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestSaveAndDeleteFile(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root)
	require.NoError(t, err)

	fh := fileHeader(t, "birth_certificate", "Acte.PDF", []byte("%PDF-1.4 test"))
	rel, err := ls.SaveFileWithPath(fh, "2024/09")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "2024/09/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))

	full, err := ls.GetFullPath(rel)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	require.NoError(t, ls.DeleteFile(rel))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// idempotent
	assert.NoError(t, ls.DeleteFile(rel))
}

func TestPathsCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(filepath.Join(root, "docs"))
	require.NoError(t, err)

	for _, p := range []string{"../secret", "/etc/passwd", "a/../../b"} {
		_, err := ls.GetFullPath(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
		assert.ErrorIs(t, ls.DeleteFile(p), ErrInvalidPath, p)
	}

	fh := fileHeader(t, "photo", "p.png", []byte("x"))
	_, err = ls.SaveFileWithPath(fh, "../outside")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
