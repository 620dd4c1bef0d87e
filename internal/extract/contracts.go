// Package extract turns uploaded bill documents into plain text. One
// extractor per supported format sits behind the TextExtractor interface;
// the Engine dispatches on the inferred format.
package extract

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/expenso-app/bill-extraction/constants"
)

// Document is one uploaded bill. The pipeline consumes it exactly once;
// the file behind Path belongs to the caller, who deletes it afterwards.
type Document struct {
	Path     string
	MIMEType string // declared by the uploader, advisory only
	Bytes    []byte
	Format   constants.FileFormat
}

// LoadDocument reads the file at path and classifies it by extension.
// A declared-MIME mismatch does not override the extension; the Engine
// logs it as a warning.
func LoadDocument(path, declaredMIME string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return &Document{
		Path:     path,
		MIMEType: declaredMIME,
		Bytes:    raw,
		Format:   constants.DetectFormat(path),
	}, nil
}

// Result is the outcome of one text extraction.
type Result struct {
	Text         string
	SourceFormat constants.FileFormat
	Method       string // "image-ocr" | "pdf-text" | "docx-text"
	Language     string
	Duration     time.Duration
	Warnings     []string
}

// TextExtractor is Stage 1: document -> text.
type TextExtractor interface {
	Extract(ctx context.Context, doc *Document) (Result, error)
}
