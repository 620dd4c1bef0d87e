package common

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorCodeFromChain(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unsupported", UnsupportedFormatError("bad type"), CodeUnsupportedFormat},
		{"extraction", ExtractionFailedError("ocr", errors.New("boom")), CodeExtractionFailed},
		{"parse", AIResponseParseError("bad json", nil), CodeAIResponseParse},
		{"missing key", MissingAPIKeyError(), CodeMissingAPIKey},
		{"wrapped", WrapError(MissingAPIKeyError(), "while processing"), CodeMissingAPIKey},
		{"plain", errors.New("something"), ""},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorCode(tc.err); got != tc.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := WrapError(ExtractionFailedError("pdf", errors.New("truncated")), "pipeline")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Error("sentinel lost through wrapping")
	}

	var ae *AppError
	if !errors.As(err, &ae) {
		t.Fatal("AppError lost through wrapping")
	}
	if ae.Code != CodeExtractionFailed {
		t.Errorf("code = %q", ae.Code)
	}
}

func TestWrapErrorNil(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("wrapping nil must stay nil")
	}
}

func TestGRPCStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{UnsupportedFormatError("txt"), codes.InvalidArgument},
		{MissingAPIKeyError(), codes.FailedPrecondition},
		{AIResponseParseError("bad", nil), codes.Internal},
		{ExtractionFailedError("ocr", nil), codes.Internal},
		{errors.New("mystery"), codes.Unknown},
	}
	for _, tc := range cases {
		got := GRPCStatus(tc.err)
		st, ok := status.FromError(got)
		if !ok {
			t.Fatalf("not a status error: %v", got)
		}
		if st.Code() != tc.want {
			t.Errorf("%v -> %v, want %v", tc.err, st.Code(), tc.want)
		}
	}
	if GRPCStatus(nil) != nil {
		t.Error("nil must map to nil")
	}
}
