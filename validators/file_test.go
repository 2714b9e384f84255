package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fileshare/file-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader the way gin would hand
// it to a handler
func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
	h["Content-Type"] = []string{contentType}

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestFileValidatorNoFile(t *testing.T) {
	code, err := FileValidator(nil, model.DefaultStorageSettings())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestFileValidatorWildcardAcceptsAnything(t *testing.T) {
	fh := fileHeader(t, "blob.bin", "application/octet-stream", []byte{0xde, 0xad})

	code, err := FileValidator(fh, model.StorageSettings{MaxFileSize: 1, AllowedFileTypes: "*"})
	assert.Equal(t, http.StatusOK, code)
	assert.NoError(t, err)
}

func TestFileValidatorSizeLimit(t *testing.T) {
	fh := fileHeader(t, "big.bin", "application/octet-stream", bytes.Repeat([]byte("a"), 2<<20))

	code, err := FileValidator(fh, model.StorageSettings{MaxFileSize: 1, AllowedFileTypes: "*"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFileValidatorNameLength(t *testing.T) {
	fh := fileHeader(t, strings.Repeat("a", 300)+".txt", "text/plain", []byte("x"))

	code, err := FileValidator(fh, model.DefaultStorageSettings())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.ErrorIs(t, err, ErrFileNameTooLong)
}

func TestFileValidatorDeclaredTypeRejected(t *testing.T) {
	fh := fileHeader(t, "script.sh", "application/x-sh", []byte("#!/bin/sh"))

	code, err := FileValidator(fh, model.StorageSettings{MaxFileSize: 1, AllowedFileTypes: "image/*"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.ErrorIs(t, err, ErrFileTypeUnsupported)
}

func TestFileValidatorSniffsRealBytes(t *testing.T) {
	// Declared as PNG but the bytes are plain text
	fh := fileHeader(t, "fake.png", "image/png", []byte("just some text"))

	code, err := FileValidator(fh, model.StorageSettings{MaxFileSize: 1, AllowedFileTypes: "image/*"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.ErrorIs(t, err, ErrFileTypeUnsupported)
}

func TestFileValidatorFamilyWildcard(t *testing.T) {
	png := append([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 16)...)
	fh := fileHeader(t, "real.png", "image/png", png)

	code, err := FileValidator(fh, model.StorageSettings{MaxFileSize: 1, AllowedFileTypes: "image/*,application/pdf"})
	assert.Equal(t, http.StatusOK, code)
	assert.NoError(t, err)
}
