package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Stable error codes the calling layer keys on. These are part of the
// contract with the expense-creation endpoint and must not change.
const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeExtractionFailed  = "EXTRACTION_FAILED"
	CodeAIResponseParse   = "AI_RESPONSE_PARSE"
	CodeMissingAPIKey     = "MISSING_API_KEY"
)

// AppError represents application-specific errors.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtractionFailed  = errors.New("text extraction failed")
	ErrAIResponseParse   = errors.New("failed to parse bill data")
	ErrMissingAPIKey     = errors.New("missing API key")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// UnsupportedFormatError is fatal: the caller surfaces it to the uploader
// as "unsupported file type"; no extraction is attempted.
func UnsupportedFormatError(message string) *AppError {
	return NewAppError(CodeUnsupportedFormat, message, ErrUnsupportedFormat)
}

// ExtractionFailedError wraps an underlying OCR/PDF/DOCX library failure.
// The raw cause is preserved in the chain but never surfaces unwrapped.
func ExtractionFailedError(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrExtractionFailed
	} else {
		cause = fmt.Errorf("%w: %w", ErrExtractionFailed, cause)
	}
	return NewAppError(CodeExtractionFailed, message, cause)
}

// AIResponseParseError marks a malformed or ill-schemed model response.
// Fatal per attempt; no partial recovery.
func AIResponseParseError(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrAIResponseParse
	} else {
		cause = fmt.Errorf("%w: %w", ErrAIResponseParse, cause)
	}
	return NewAppError(CodeAIResponseParse, message, cause)
}

// MissingAPIKeyError is a precondition failure, not an extraction failure.
func MissingAPIKeyError() *AppError {
	return NewAppError(CodeMissingAPIKey, "AI extraction requires an API key", ErrMissingAPIKey)
}

// ErrorCode extracts the stable code from an error chain, "" when none.
func ErrorCode(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// GRPCStatus maps pipeline errors onto distinct gRPC status codes for the
// serving layer.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	switch ErrorCode(err) {
	case CodeUnsupportedFormat:
		return status.Error(codes.InvalidArgument, err.Error())
	case CodeMissingAPIKey:
		return status.Error(codes.FailedPrecondition, err.Error())
	case CodeAIResponseParse:
		return status.Error(codes.Internal, err.Error())
	case CodeExtractionFailed:
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Unknown, err.Error())
	}
}
