package fakeapi

import (
	"net/http"
)

// ErrorKind classifies an API error response.
type ErrorKind string

const (
	KindBadRequest ErrorKind = "bad_request"
	KindNotFound   ErrorKind = "not_found"
	KindInjected   ErrorKind = "injected"
	KindInternal   ErrorKind = "internal"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`

	status int
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the status code the error is sent with.
func (e *APIError) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

func newNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: resource + " not found"}
}

// newInjectedError is a failure configured through Config rather than caused
// by the request.
func newInjectedError(status int, message string) *APIError {
	return &APIError{Kind: KindInjected, Message: message, status: status}
}
