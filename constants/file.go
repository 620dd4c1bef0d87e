package constants

import (
	"path/filepath"
	"strings"
)

// FileFormat is the inferred document format tag.
type FileFormat string

const (
	IMAGE       FileFormat = "IMAGE"
	PDF         FileFormat = "PDF"
	DOCX        FileFormat = "DOCX"
	UNSUPPORTED FileFormat = "UNSUPPORTED"
)

// extFormats is the closed extension table for ingestion. Anything outside
// it is UNSUPPORTED and must surface to the uploader as such, never be fed
// to an extractor.
var extFormats = map[string]FileFormat{
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"pdf":  PDF,
	"doc":  DOCX,
	"docx": DOCX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat classifies a bare extension ("pdf", ".PDF", ...).
func MapExtToFormat(ext string) FileFormat {
	if f, ok := extFormats[NormalizeExt(ext)]; ok {
		return f
	}
	return UNSUPPORTED
}

// DetectFormat classifies a path or filename by its extension.
func DetectFormat(path string) FileFormat {
	return MapExtToFormat(filepath.Ext(path))
}

// mimeFormats maps declared MIME types onto formats. The declared type is
// advisory only: detection is extension-driven and a mismatch is logged,
// not acted on.
var mimeFormats = map[string]FileFormat{
	"image/png":          IMAGE,
	"image/jpeg":         IMAGE,
	"application/pdf":    PDF,
	"application/msword": DOCX,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": DOCX,
}

// MapMIMEToFormat classifies a declared MIME type, UNSUPPORTED when unknown.
func MapMIMEToFormat(mimeType string) FileFormat {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if f, ok := mimeFormats[mt]; ok {
		return f
	}
	return UNSUPPORTED
}
