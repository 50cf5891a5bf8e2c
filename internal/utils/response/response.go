// Package response writes the JSON bodies returned by the API.
//
// Success bodies are whatever the handler passes in (a student, a list).
// Error bodies always use the same envelope so clients, including the web
// client in this repository, can decode them uniformly:
//
//	{ "status": "error", "error": "request body is empty" }
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the error envelope.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// internalMessage is what clients see for any data store failure. The
// underlying error is logged server-side only.
const internalMessage = "internal server error"

// WriteJSON sets the content type, writes status, then encodes data.
// Headers cannot change after WriteHeader, so the order matters.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK is the body of a successful call that has nothing else to return.
func OK() Response {
	return Response{Status: StatusOK}
}

// GeneralError exposes err's message to the client. Use it for problems
// the client caused (bad JSON, empty body).
func GeneralError(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}

// InternalError hides the cause from the client.
func InternalError() Response {
	return Response{Status: StatusError, Error: internalMessage}
}

// ValidationError joins validator field errors into one readable message:
//
//	{ "status": "error", "error": "field name must be at most 255 characters" }
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))

	for _, e := range errs {
		switch e.ActualTag() {
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{Status: StatusError, Error: strings.Join(msgs, ", ")}
}
