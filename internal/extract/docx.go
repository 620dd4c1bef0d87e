package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/common"
)

// DOCXExtractor pulls paragraph text out of word/document.xml. Tables,
// headers, and footers are not guaranteed.
type DOCXExtractor struct {
	logger *slog.Logger
}

func NewDOCXExtractor(logger *slog.Logger) *DOCXExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DOCXExtractor{logger: logger}
}

func (e *DOCXExtractor) Extract(ctx context.Context, doc *Document) (Result, error) {
	start := time.Now()
	res := Result{SourceFormat: constants.DOCX, Method: "docx-text"}

	if err := ctx.Err(); err != nil {
		return res, common.ExtractionFailedError("docx extraction canceled", err)
	}

	text, err := readDOCXText(doc.Bytes)
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("extract.docx.failed", "path", doc.Path, "error", err)
		return res, common.ExtractionFailedError("docx text", err)
	}
	res.Text = NormalizeText(text)
	e.logger.Debug("extract.docx.ok", "path", doc.Path, "bytes", len(res.Text), "elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

func readDOCXText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()
		return walkDocumentXML(rc)
	}
	return "", fmt.Errorf("document.xml not found in archive")
}

// walkDocumentXML streams the XML and collects text runs (<w:t>), emitting
// a newline at each paragraph close (</w:p>). Streaming sidesteps the
// namespace juggling a struct-based unmarshal would need.
func walkDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
