package httpx

import (
	"errors"
	"net/http"
)

// genericMessage replaces any error message that is not safe to expose.
const genericMessage = "An unexpected error occurred. Please try again later."

// Error is the transport-edge error type. Message is only written to the
// client when Public is true; otherwise it is replaced with a generic
// string so internal detail never leaks.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
	Public  bool   `json:"-"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// NewError builds a client-safe error.
func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message, Public: true}
}

// NewInternalError builds an error whose message is redacted before it
// reaches the client.
func NewInternalError(code, message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: code, Message: message}
}

// WriteError writes e as a JSON response, redacting non-public messages.
func WriteError(w http.ResponseWriter, e *Error) {
	msg := e.Message
	if !e.Public {
		msg = genericMessage
	}
	WriteJSON(w, e.Status, Error{Code: e.Code, Message: msg})
}

// HandleError maps any error to a response. *Error values pass through;
// everything else becomes a redacted 500.
func HandleError(w http.ResponseWriter, err error) {
	var he *Error
	if errors.As(err, &he) {
		WriteError(w, he)
		return
	}
	WriteError(w, &Error{Status: http.StatusInternalServerError, Code: "server_error", Message: err.Error()})
}
