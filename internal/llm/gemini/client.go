// Package gemini implements llm.FieldExtractor against a Gemini-style
// generateContent endpoint. The call ships the raw document bytes
// (base64-encoded) and the caller-supplied API key to a third-party
// service; that trust boundary is the caller's to accept.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expenso-app/bill-extraction/internal/common"
	"github.com/expenso-app/bill-extraction/internal/expense"
	"github.com/expenso-app/bill-extraction/internal/extract"
	"github.com/expenso-app/bill-extraction/internal/llm"
)

var errTransport = errors.New("gemini transport error")

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("gemini status %d: %s", e.status, e.body)
}

// isRetryable classifies transport failures, 429, and 5xx as retryable;
// everything else (other 4xx, parse errors) fails the attempt for good.
func isRetryable(err error) bool {
	var se *httpStatusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	return errors.Is(err, errTransport)
}

// Extract implements llm.FieldExtractor. A missing API key is a hard
// precondition failure, not an extraction failure.
func (c *Client) Extract(ctx context.Context, doc *extract.Document) (expense.Candidate, []byte, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return expense.Candidate{}, nil, common.MissingAPIKeyError()
	}

	rid := uuid.New().String()
	start := time.Now()
	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"format", doc.Format,
		"bytes", len(doc.Bytes),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return expense.Candidate{}, nil, err
	}

	body := c.buildRequest(doc)

	var raw []byte
	err := c.exec.Execute(ctx, "gemini.generate_content", func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		var perr error
		raw, perr = c.post(attemptCtx, body)
		return perr
	})
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return expense.Candidate{}, nil, fmt.Errorf("gemini call: %w", err)
	}

	content, err := decodeResponseText(raw)
	if err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return expense.Candidate{}, raw, common.AIResponseParseError("decode model response", err)
	}

	fields, cleanJSON, err := ParseBillFields(content)
	if err != nil {
		c.log.Error("llm.extract.parse_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return expense.Candidate{}, []byte(content), err
	}

	candidate := fields.ToCandidate(time.Now())
	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"vendor", candidate.Vendor,
		"date", candidate.Date,
		"amount", candidate.Amount,
		"category", candidate.Category,
		"items", len(candidate.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return candidate, cleanJSON, nil
}

// ParseBillFields runs the response-sanitization chain: strip code fences,
// clean optionals, validate against the schema, decode into typed fields.
// Any failure is a parse error; there is no partial recovery.
func ParseBillFields(content string) (llm.BillFields, []byte, error) {
	stripped := StripResponse(content)

	cleaned, _, err := llm.SanitizeFields([]byte(stripped))
	if err != nil {
		return llm.BillFields{}, nil, common.AIResponseParseError("failed to parse bill data", err)
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildBillJSONSchema(), cleaned); err != nil {
		return llm.BillFields{}, cleaned, common.AIResponseParseError("failed to parse bill data", err)
	}
	var fields llm.BillFields
	if err := json.Unmarshal(cleaned, &fields); err != nil {
		return llm.BillFields{}, cleaned, common.AIResponseParseError("failed to parse bill data", err)
	}
	return fields, cleaned, nil
}

// StripResponse removes the model's Markdown fences.
func StripResponse(content string) string {
	return llm.StripCodeFences(content)
}

func (c *Client) buildRequest(doc *extract.Document) map[string]any {
	return map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": llm.BuildPrompt()},
				{"inline_data": map[string]any{
					"mime_type": documentMIME(doc),
					"data":      base64.StdEncoding.EncodeToString(doc.Bytes),
				}},
			},
		}},
		"generationConfig": map[string]any{
			"temperature": 0,
		},
	}
}

func (c *Client) post(ctx context.Context, body map[string]any) ([]byte, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTransport, err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("gemini response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{status: resp.StatusCode, body: truncate(string(raw), 2048)}
	}
	return raw, nil
}

// decodeResponseText pulls the first text part out of the generateContent
// envelope.
func decodeResponseText(raw []byte) (string, error) {
	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode response envelope: %w", err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	for _, part := range envelope.Candidates[0].Content.Parts {
		if strings.TrimSpace(part.Text) != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("no text part in response")
}

func documentMIME(doc *extract.Document) string {
	if mt := strings.TrimSpace(doc.MIMEType); mt != "" {
		return mt
	}
	ext := strings.ToLower(filepath.Ext(doc.Path))
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	switch strings.TrimPrefix(ext, ".") {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
