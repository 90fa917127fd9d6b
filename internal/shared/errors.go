package shared

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the current user may not perform the action.
	ErrForbidden = errors.New("forbidden")
)

// GenericErrorMessage is shown when an error carries no user-facing text.
const GenericErrorMessage = "Ocurrió un error inesperado"

// UserMessager is implemented by errors that carry text meant for the user.
type UserMessager interface {
	UserMessage() string
}

// ErrorMessage converts err into the text shown in a banner or inline.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var um UserMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	return GenericErrorMessage
}

// MessageError is an error whose text is safe to display as-is.
type MessageError struct {
	Err     error
	Message string
}

// NewMessageError wraps err with a display message.
func NewMessageError(err error, message string) *MessageError {
	return &MessageError{Err: err, Message: message}
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// UserMessage implements UserMessager.
func (e *MessageError) UserMessage() string { return e.Message }

func (e *MessageError) Unwrap() error { return e.Err }
