// Package upload validates enrollment documents before anything is stored.
package upload

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

const (
	DefaultMaxFiles    = 5
	DefaultMaxFileSize = 5 << 20
)

// maxDocumentTypeLength matches documents.document_type
const maxDocumentTypeLength = 50

// allowedTypes maps an extension to the MIME types accepted for it, both
// declared by the client and detected from content.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// Policy bounds the number, size and kind of uploaded documents
type Policy struct {
	MaxFiles    int
	MaxFileSize int64
}

// DefaultPolicy returns the policy of 5 files of at most 5 MB each
func DefaultPolicy() Policy {
	return Policy{MaxFiles: DefaultMaxFiles, MaxFileSize: DefaultMaxFileSize}
}

// File is an accepted upload
type File struct {
	// Field is the form field name, recorded as the document type
	Field    string
	Header   *multipart.FileHeader
	MimeType string
	Size     int64
}

// Filename returns the client-supplied base name
func (f File) Filename() string {
	return filepath.Base(f.Header.Filename)
}

// Validate checks every file of form and returns them ordered by field name.
// The first violation rejects the whole request.
func (p Policy) Validate(form *multipart.Form) ([]File, error) {
	if form == nil || len(form.File) == 0 {
		return nil, nil
	}

	fields := make([]string, 0, len(form.File))
	total := 0
	for field, headers := range form.File {
		fields = append(fields, field)
		total += len(headers)
	}
	if p.MaxFiles > 0 && total > p.MaxFiles {
		return nil, apperrors.NewUploadRejectedError("", fmt.Sprintf("at most %d files may be uploaded, got %d", p.MaxFiles, total))
	}
	sort.Strings(fields)

	files := make([]File, 0, total)
	for _, field := range fields {
		if field == "" || len(field) > maxDocumentTypeLength {
			return nil, apperrors.NewUploadRejectedError(field, "document field name must be 1 to 50 characters")
		}
		for _, fh := range form.File[field] {
			f, err := p.check(field, fh)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func (p Policy) check(field string, fh *multipart.FileHeader) (File, error) {
	if p.MaxFileSize > 0 && fh.Size > p.MaxFileSize {
		return File{}, apperrors.NewUploadRejectedError(field,
			fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, p.MaxFileSize>>20))
	}
	if fh.Size == 0 {
		return File{}, apperrors.NewUploadRejectedError(field, fh.Filename+" is empty")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	accepted, ok := allowedTypes[ext]
	if !ok {
		return File{}, apperrors.NewUploadRejectedError(field,
			fmt.Sprintf("%s: only jpg, jpeg, png, pdf, doc and docx files are accepted", fh.Filename))
	}

	declared := fh.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		declared = mt
	}
	if !contains(accepted, strings.ToLower(declared)) {
		return File{}, apperrors.NewUploadRejectedError(field,
			fmt.Sprintf("%s: declared type %q does not match its extension", fh.Filename, declared))
	}

	detected, err := sniff(fh)
	if err != nil {
		return File{}, err
	}
	if !matches(detected, accepted) {
		return File{}, apperrors.NewUploadRejectedError(field,
			fmt.Sprintf("%s: content (%s) does not match its extension", fh.Filename, detected.String()))
	}

	return File{Field: field, Header: fh, MimeType: accepted[0], Size: fh.Size}, nil
}

func sniff(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect upload %s: %w", fh.Filename, err)
	}
	return detected, nil
}

// matches walks the detected type and its parents, so aliases of an accepted type pass
func matches(detected *mimetype.MIME, accepted []string) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range accepted {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
