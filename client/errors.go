package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// APIError carries a non-2xx backend response. The raw body is kept so
// callers can surface structured validation errors; Detail holds the
// conventional "detail" field when the body contains one.
type APIError struct {
	StatusCode int
	Body       []byte
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// HTTPStatus reports the response status code. The query layer uses this to
// decide retryability without importing this package.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Is maps well-known status codes onto the shared sentinel errors so callers
// can use errors.Is instead of switching on codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ierrors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ierrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ierrors.ErrBadRequest:
		return e.StatusCode >= 400 && e.StatusCode < 500
	case ierrors.ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: body}
	var detail struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		if detail.Detail != "" {
			apiErr.Detail = detail.Detail
		} else if detail.Message != "" {
			apiErr.Detail = detail.Message
		}
	}
	return apiErr
}
