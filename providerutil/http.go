package providerutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response body is kept in a
// StatusError.
const maxErrorBody = 8 * 1024

// StatusError is returned by ReadJSON when the provider answers with a
// non-2xx status code. Authentication failures (401), rate limiting (429)
// and provider outages (5xx) all surface as a StatusError.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider: http status %d: %s", e.StatusCode, e.Body)
}

// ReadJSON decodes a JSON response body into v and closes the body.
//
// If the response status code is not in the 2xx range, ReadJSON
// returns a *StatusError whose text has the form:
//
//	provider: http status <code>: <truncated-body>
func ReadJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("provider: decoding response: %w", err)
	}
	return nil
}

// DefaultHTTPClient returns the default HTTP client used when none is provided.
func DefaultHTTPClient() *http.Client {
	return http.DefaultClient
}
