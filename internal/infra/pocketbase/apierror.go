package pocketbase

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pbmcp/internal/domain"
)

// APIError is the error payload PocketBase returns for non-2xx responses.
type APIError struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pocketbase: status %d", e.Status)
	}
	return e.Message
}

func apiErrorFrom(op string, status int, body []byte) *domain.Error {
	apiErr := &APIError{Status: status}
	if len(body) > 0 {
		// Body may be non-JSON on proxy failures; keep the status fallback.
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	if len(apiErr.Data) > 0 {
		if details, err := json.Marshal(apiErr.Data); err == nil {
			msg = fmt.Sprintf("%s (%s)", msg, details)
		}
	}
	return domain.E(codeForStatus(status), op, msg, apiErr)
}

func codeForStatus(status int) domain.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return domain.CodeInvalidArgument
	case http.StatusUnauthorized:
		return domain.CodeUnauthenticated
	case http.StatusForbidden:
		return domain.CodePermissionDenied
	case http.StatusNotFound:
		return domain.CodeNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return domain.CodeUnavailable
	default:
		return domain.CodeInternal
	}
}
