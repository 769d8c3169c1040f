package poultry

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind tags the two ways a backend call can fail.
type Kind int

const (
	// KindTransport covers failures with no structured server payload:
	// connection refused, timeouts, cancelled contexts, undecodable bodies.
	KindTransport Kind = iota
	// KindServer covers HTTP error responses carrying status and message.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	default:
		return "transport"
	}
}

// APIError is the tagged error returned by every Client call.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == KindServer {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsAPIError maps any error into an *APIError. Errors that are not already
// tagged become transport errors carrying their message.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: KindTransport, Message: err.Error(), Err: err}
}

func transportError(op string, err error) *APIError {
	return &APIError{
		Kind:    KindTransport,
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}

// serverError builds a KindServer error, filling whatever the structured body
// left out from the HTTP response itself.
func serverError(httpStatus int, body *errorBody, raw string) *APIError {
	e := &APIError{Kind: KindServer, Status: httpStatus}
	if body != nil {
		if body.Status != 0 {
			e.Status = body.Status
		}
		e.Message = strings.TrimSpace(body.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(body.Error)
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(raw)
	}
	if e.Message == "" {
		e.Message = http.StatusText(httpStatus)
	}
	return e
}
