package filestorage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestSaveFile(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	relPath, err := storage.SaveFile(makeFileHeader(t, "syllabus.pdf", "content"), "syllabi")
	require.NoError(t, err)

	// Stored under the subdirectory with a generated name, extension kept
	assert.True(t, strings.HasPrefix(relPath, "syllabi"+string(filepath.Separator)))
	assert.Equal(t, ".pdf", filepath.Ext(relPath))

	data, err := os.ReadFile(filepath.Join(storage.basePath, relPath))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveFileGeneratesUniqueNames(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	first, err := storage.SaveFile(makeFileHeader(t, "syllabus.pdf", "a"), "syllabi")
	require.NoError(t, err)
	second, err := storage.SaveFile(makeFileHeader(t, "syllabus.pdf", "b"), "syllabi")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveFileRejectsNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.SaveFile(nil, "syllabi")
	assert.Error(t, err)
}

func TestDeleteFileIsIdempotent(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	relPath, err := storage.SaveFile(makeFileHeader(t, "syllabus.pdf", "content"), "syllabi")
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(relPath))
	_, statErr := os.Stat(filepath.Join(storage.basePath, relPath))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again succeeds; so does deleting nothing
	assert.NoError(t, storage.DeleteFile(relPath))
	assert.NoError(t, storage.DeleteFile(""))
}

func TestStageTempReadAndRemove(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	relPath, err := storage.StageTemp(makeFileHeader(t, "filters.json", `{"terms": []}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "tmp"+string(filepath.Separator)))

	data, err := storage.ReadAndRemove(relPath)
	require.NoError(t, err)
	assert.Equal(t, `{"terms": []}`, string(data))

	// Nothing remains staged after the read
	_, statErr := os.Stat(filepath.Join(storage.basePath, relPath))
	assert.True(t, os.IsNotExist(statErr))

	// Reading a consumed path fails
	_, err = storage.ReadAndRemove(relPath)
	assert.Error(t, err)
}
