// Package uploads holds the per-file checks for listing images: size,
// declared MIME type and magic-byte signature, plus storage key naming.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxFileSize is the largest accepted image, in bytes.
	MaxFileSize = 5 << 20
	// MaxFiles is the largest accepted batch.
	MaxFiles = 5
	// SignatureLen is how many leading bytes are inspected.
	SignatureLen = 12
)

var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrStoreFailed       = errors.New("store failed")
)

var (
	sigJPEG = []byte{0xFF, 0xD8, 0xFF}
	sigPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	sigRIFF = []byte("RIFF")
	sigWEBP = []byte("WEBP")
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

type unsupportedTypeError struct {
	contentType string
}

func (e *unsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q", e.contentType)
}

func (e *unsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// CheckSize rejects files over MaxFileSize.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// CheckType rejects declared types outside the image allow-list.
func CheckType(contentType string) error {
	if _, ok := allowedTypes[strings.ToLower(contentType)]; !ok {
		return &unsupportedTypeError{contentType: contentType}
	}
	return nil
}

// CheckSignature compares the first SignatureLen bytes of a file with the
// magic bytes of its declared type. Shorter files never match.
func CheckSignature(contentType string, header []byte) error {
	if len(header) < SignatureLen {
		return ErrSignatureMismatch
	}

	var ok bool
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		ok = bytes.HasPrefix(header, sigJPEG)
	case "image/png":
		ok = bytes.HasPrefix(header, sigPNG)
	case "image/webp":
		ok = bytes.HasPrefix(header, sigRIFF) && bytes.Equal(header[8:12], sigWEBP)
	}

	if !ok {
		return ErrSignatureMismatch
	}
	return nil
}

// Message turns a per-file error into the text returned to clients.
func Message(err error) string {
	var ute *unsupportedTypeError
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "File exceeds 5MB limit"
	case errors.As(err, &ute):
		return fmt.Sprintf("Invalid file type: %s. Allowed: JPG, PNG, WebP", ute.contentType)
	case errors.Is(err, ErrSignatureMismatch):
		return "File content does not match declared type"
	default:
		return "Upload failed"
	}
}
