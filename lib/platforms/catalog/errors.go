package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// APIError is returned for every non-2xx response from the catalog service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

// detailMessage reads `detail` as either a string or a list of validation
// errors ({"msg": ...}).
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0].Msg
	}
	return ""
}

func newAPIError(res *resty.Response) *APIError {
	status := res.StatusCode()

	var body errorBody
	if json.Unmarshal(res.Body(), &body) == nil {
		if msg := detailMessage(body.Detail); msg != "" {
			return &APIError{Status: status, Message: msg}
		}
		if body.Error != "" {
			return &APIError{Status: status, Message: body.Error}
		}
	}
	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("HTTP error! status: %d", status),
	}
}

// Message is the user-facing text for err: the server's message for an
// APIError, otherwise `fallback`.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}
