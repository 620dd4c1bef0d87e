package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/common"
)

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	e := NewPDFExtractor(nil)
	doc := &Document{Path: "bill.pdf", Bytes: []byte("this is not a pdf"), Format: constants.PDF}

	_, err := e.Extract(context.Background(), doc)
	if !errors.Is(err, common.ErrExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
	if common.ErrorCode(err) != common.CodeExtractionFailed {
		t.Errorf("code = %q", common.ErrorCode(err))
	}
}

func TestPDFExtractorCanceledContext(t *testing.T) {
	e := NewPDFExtractor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, &Document{Path: "bill.pdf", Format: constants.PDF})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation in chain, got %v", err)
	}
}

func TestReadPDFTextTruncatedHeader(t *testing.T) {
	// a valid magic header with a truncated body must not panic
	_, _, err := readPDFText([]byte("%PDF-1.4\n1 0 obj\n"))
	if err == nil {
		t.Fatal("expected error for truncated pdf")
	}
}
