package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// NetworkMessage is shown when the backend cannot be reached.
const NetworkMessage = "No se pudo conectar con el servidor"

// messageFields lists the body fields inspected for a server message, in order.
var messageFields = []string{"message", "error", "detail", "title"}

// RequestError reports a response whose status is outside the 2xx range.
type RequestError struct {
	Method    string
	Endpoint  string
	Status    int
	Message   string
	RequestID string
	Body      []byte
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
}

// UserMessage returns the server-provided message.
func (e *RequestError) UserMessage() string { return e.Message }

// NetworkError reports a request that never produced a response.
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: %v", e.Method, e.Endpoint, e.Err)
}

// UserMessage implements shared.UserMessager.
func (e *NetworkError) UserMessage() string { return NetworkMessage }

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

func extractMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range messageFields {
			res := gjson.GetBytes(body, field)
			if res.Type == gjson.String {
				if msg := strings.TrimSpace(res.String()); msg != "" {
					return msg
				}
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
