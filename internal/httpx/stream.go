package httpx

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mantle-cli/mantle/providers/api"
)

// PostStream performs an HTTP POST and returns the raw response with the body
// left open for SSE reading. The caller owns the body and must close it when
// done; on error paths the body is read and closed before returning.
//
// Failure normalization matches [PostJSON]: pre-stream failures come back as
// *api.TransportError, including non-2xx statuses with the error body
// attached.
func PostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any) (*http.Response, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &api.TransportError{Kind: api.TransportDecode, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &api.TransportError{Kind: api.TransportConnection, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	response, err := httpClient.Do(req)
	if err != nil {
		return nil, classifyRequestError(err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			return nil, &api.TransportError{
				Kind:       api.TransportHTTPStatus,
				StatusCode: response.StatusCode,
				Err:        readErr,
			}
		}
		return nil, statusError(response.StatusCode, errorBody)
	}

	return response, nil
}

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The default
// bufio.Scanner limit is 64 KiB, which is too small for large events such as
// long completions. If a line exceeds this limit the scanner returns a wrapped
// bufio.ErrTooLong via the Next() error path.
const maxSSELineSize = 1 * 1024 * 1024

// SSEScanner reads Server-Sent Events from an io.Reader. It handles
// multi-line data fields, skips comments and empty lines, and detects the
// [DONE] sentinel used by OpenAI-compatible APIs.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner reading from the given reader. Lines up
// to maxSSELineSize are supported.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next SSE data payload as a string. It skips empty lines
// and comment lines (starting with ':'). Multi-line data fields (consecutive
// "data:" lines) are joined with newlines into a single payload.
//
// Returns io.EOF when no more events are available or when the [DONE]
// sentinel is encountered.
func (sse *SSEScanner) Next() (string, error) {
	var dataLines []string

	for sse.scanner.Scan() {
		line := sse.scanner.Text()

		// Empty line ends an event; flush accumulated data lines.
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			if data == "[DONE]" {
				return "", io.EOF
			}

			dataLines = append(dataLines, data)
			continue
		}

		// Other SSE fields (event:, id:, retry:) are ignored.
	}

	if err := sse.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}

	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}

	return "", io.EOF
}
