package httpx

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// errorEnvelope matches the error body shape shared by both API surfaces:
//
//	{"error": {"message": "...", "type": "...", "code": "..."}}
type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ErrorEnvelopeMessage extracts the server error message from a non-2xx
// response body. Gateways and proxies often return truncated or loosely
// quoted JSON, so a failed parse is retried once after running the body
// through jsonrepair. Returns "" when no envelope can be recovered; the raw
// body is still carried on the TransportError for diagnostics.
func ErrorEnvelopeMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" || !strings.HasPrefix(body, "{") {
		return ""
	}

	var envelope errorEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(body)
		if repairErr != nil {
			return ""
		}
		if err = json.Unmarshal([]byte(repaired), &envelope); err != nil {
			return ""
		}
	}

	if envelope.Error == nil {
		return ""
	}
	if envelope.Error.Code != "" && envelope.Error.Message != "" {
		return fmt.Sprintf("%s (%s)", envelope.Error.Message, envelope.Error.Code)
	}
	return envelope.Error.Message
}

// DefaultMaxStringLength is the default maximum length for truncated strings.
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original total length so callers know data was omitted.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
