// Package httputil holds the shared HTTP response helpers: one JSON writer
// and one error writer so every handler speaks the same envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "signet/pkg/domain-errors"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its HTTP status and writes the OAuth-style error
// envelope. Internal errors omit the description so storage and upstream
// failures never leak detail to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var dErr *dErrors.Error
		if errors.As(err, &dErr) {
			resp.ErrorDescription = dErr.Message
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
