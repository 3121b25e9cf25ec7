package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func TestSaveFileIntoBucket(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "")
	require.NoError(t, err)

	accessible, err := storage.SaveFile(uploadHeader(t, "photo.png", "img-bytes"), "avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(accessible, "uploads/avatars/"), accessible)
	assert.True(t, strings.HasSuffix(accessible, ".png"), accessible)

	stored := filepath.Join(base, "avatars", filepath.Base(accessible))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "img-bytes", string(data))
}

func TestSaveFilePrependsBaseURL(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	accessible, err := storage.SaveFile(uploadHeader(t, "cover.jpg", "cover"), "avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(accessible, "http://localhost:8080/uploads/avatars/"), accessible)
}

func TestDeleteFileRemovesStoredUpload(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "")
	require.NoError(t, err)

	accessible, err := storage.SaveFile(uploadHeader(t, "photo.png", "img"), "avatars")
	require.NoError(t, err)
	stored := filepath.Join(base, "avatars", filepath.Base(accessible))

	require.NoError(t, storage.DeleteFile(accessible))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// A second delete of the same path is a no-op
	assert.NoError(t, storage.DeleteFile(accessible))
}
