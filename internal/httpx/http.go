package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/mantle-cli/mantle/providers/api"
)

// maxResponseBodySize caps response body reads (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// PostJSON performs a synchronous HTTP POST with a JSON body and decodes the
// response into OutputStruct. It blocks until the full body is received.
//
// Error handling strategy:
//   - Context deadline and network timeouts become TransportTimeout
//   - Dial/DNS/reset failures become TransportConnection
//   - Non-2xx statuses become TransportHTTPStatus with the body attached
//   - JSON decode failures become TransportDecode with a body preview
//
// The response body is always closed before returning; close errors are
// logged without overriding the primary error.
func PostJSON[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any) (*OutputStruct, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &api.TransportError{Kind: api.TransportDecode, Err: err}
	}
	return doJSON[OutputStruct](ctx, client, http.MethodPost, url, apiKey, bytes.NewReader(jsonBody))
}

// GetJSON performs a synchronous HTTP GET and decodes the response into
// OutputStruct. Failure normalization matches [PostJSON].
func GetJSON[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string) (*OutputStruct, error) {
	return doJSON[OutputStruct](ctx, client, http.MethodGet, url, apiKey, nil)
}

func doJSON[OutputStruct any](ctx context.Context, client *http.Client, method, url, apiKey string, body io.Reader) (*OutputStruct, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &api.TransportError{Kind: api.TransportConnection, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, classifyRequestError(err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return nil, classifyRequestError(err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, statusError(res.StatusCode, respBody)
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return nil, &api.TransportError{
			Kind: api.TransportDecode,
			Body: TruncateString(string(respBody), 500),
			Err:  err,
		}
	}

	return &resStruct, nil
}

// classifyRequestError maps a low-level HTTP client error onto the transport
// taxonomy: deadline/timeout errors become TransportTimeout, everything else
// TransportConnection.
func classifyRequestError(err error) *api.TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &api.TransportError{Kind: api.TransportTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &api.TransportError{Kind: api.TransportTimeout, Err: err}
	}
	return &api.TransportError{Kind: api.TransportConnection, Err: err}
}

// statusError builds the TransportHTTPStatus error for a non-2xx response,
// attaching the raw body and, when one can be parsed (with JSON repair for
// truncated envelopes), the server's error message.
func statusError(statusCode int, body []byte) *api.TransportError {
	return &api.TransportError{
		Kind:       api.TransportHTTPStatus,
		StatusCode: statusCode,
		Body:       TruncateString(string(body), 500),
		Message:    ErrorEnvelopeMessage(string(body)),
	}
}

// CloseWithLog closes the given closer, logging any close error. Used where a
// close failure must not override the primary error path.
func CloseWithLog(closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
