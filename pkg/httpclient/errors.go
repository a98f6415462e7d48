package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// ErrorBody mirrors the error payloads the marketplace backend returns:
//
//	{"success": false, "message": "...", "errors": {"field": ["..."]}}
//
// Some endpoints answer with {"error": "..."} instead of "message".
type ErrorBody struct {
	Success *bool               `json:"success"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an *apperrors.AppError. The server message and field errors are
// preserved when the body is JSON; otherwise the message stays empty so callers
// fall back to their own defaults.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		appErr := apperrors.FromStatus(resp.StatusCode, "", nil)
		appErr.Err = fmt.Errorf("%w (failed to read body: %v)", appErr.Err, err)
		return appErr
	}

	var body ErrorBody
	if json.Unmarshal(bodyBytes, &body) != nil {
		return apperrors.FromStatus(resp.StatusCode, "", nil)
	}

	message := strings.TrimSpace(body.Message)
	if message == "" {
		message = strings.TrimSpace(body.Error)
	}
	return apperrors.FromStatus(resp.StatusCode, message, body.Errors)
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

// IsSuccess returns true for 2xx status codes.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
