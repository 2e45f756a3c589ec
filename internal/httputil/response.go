package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithFieldError writes an error response naming the offending field
func RespondWithFieldError(w http.ResponseWriter, code int, field, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message, Field: field})
}

// internalErrorBody is written when a payload cannot be encoded.
var internalErrorBody = []byte(`{"error":"internal server error"}`)

// RespondWithJSON writes a JSON response. A payload that cannot be encoded
// is logged and answered with 500 instead.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode response", "status", code, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(internalErrorBody)
		return
	}

	w.WriteHeader(code)
	w.Write(response)
}
