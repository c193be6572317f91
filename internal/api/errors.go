package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindTransport means no HTTP response was received.
	KindTransport ErrorKind = iota
	// KindNonJSON means the server answered with a body that is not JSON.
	KindNonJSON
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNonJSON:
		return "non_json"
	case KindHTTP:
		return "http"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Client method on failure. Message is already
// operator-facing and is what Error() reports.
type Error struct {
	Kind    ErrorKind
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// nonJSONPreview is how much of a non-JSON body ends up in the message.
const nonJSONPreview = 200

func nonJSONError(method, path string, status int, body []byte) *Error {
	text := string(body)
	if r := []rune(text); len(r) > nonJSONPreview {
		text = string(r[:nonJSONPreview])
	}
	return &Error{
		Kind:    KindNonJSON,
		Status:  status,
		Method:  method,
		Path:    path,
		Message: "Server returned non-JSON response: " + text,
	}
}

func transportError(method, path string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Method:  method,
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

func httpError(method, path string, status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &Error{
		Kind:    KindHTTP,
		Status:  status,
		Method:  method,
		Path:    path,
		Message: msg,
	}
}

var authMarkers = []string{
	"401",
	"Unauthorized",
	"credentials",
	"Authentication",
	"Could not validate",
}

// IsAuthError reports whether err means the credentials were rejected:
// a 401 status, or a message carrying one of the backend's auth phrases.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return true
	}
	msg := err.Error()
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsNotFound reports a 404 status or a "not found" message.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
