// Package validators checks incoming uploads before any bytes leave
// the process
package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"fileshare/file-api/model"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
)

const maxFileNameSize = 255

// FileValidator checks the upload against the storage settings and
// returns the HTTP status to respond with on failure. The declared
// Content-Type header is checked first because it's cheap, then the
// real bytes are sniffed to catch lying clients.
func FileValidator(fh *multipart.FileHeader, st model.StorageSettings) (int, error) {
	if fh == nil {
		return http.StatusBadRequest, ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, ErrFileNameTooLong
	}

	if st.MaxFileSize > 0 && fh.Size > st.MaxFileSize<<20 {
		return http.StatusRequestEntityTooLarge, ErrFileTooLarge
	}

	if st.AllowedFileTypes == "" || st.AllowedFileTypes == "*" {
		return http.StatusOK, nil
	}

	if !typeAllowed(fh.Header.Get("Content-Type"), st.AllowedFileTypes) {
		return http.StatusBadRequest, ErrFileTypeUnsupported
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, err
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return http.StatusInternalServerError, err
	}

	if !typeAllowed(mime.String(), st.AllowedFileTypes) {
		return http.StatusBadRequest, ErrFileTypeUnsupported
	}

	return http.StatusOK, nil
}

// typeAllowed matches a content type against a comma-separated allow
// list. Entries may be exact ("application/pdf") or a family wildcard
// ("image/*").
func typeAllowed(ct, allowed string) bool {
	ct, _, _ = strings.Cut(ct, ";")
	ct = strings.TrimSpace(strings.ToLower(ct))

	for entry := range strings.SplitSeq(allowed, ",") {
		entry = strings.TrimSpace(strings.ToLower(entry))
		if entry == "" {
			continue
		}

		if entry == "*" || entry == ct {
			return true
		}

		if family, ok := strings.CutSuffix(entry, "/*"); ok && strings.HasPrefix(ct, family+"/") {
			return true
		}
	}

	return false
}
