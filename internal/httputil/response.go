package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the API error format: an error key plus an optional
// human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing useful left to do
			return
		}
	}
}

// WriteError writes {"error": ..., "message": ...}; message may be empty.
func WriteError(w http.ResponseWriter, status int, errText, message string) {
	WriteJSON(w, status, ErrorResponse{Error: errText, Message: message})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, errText string) {
	WriteError(w, http.StatusBadRequest, errText, "")
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, errText string) {
	WriteError(w, http.StatusUnauthorized, errText, "")
}

// WriteForbidden writes a 403 Forbidden error
func WriteForbidden(w http.ResponseWriter, errText string) {
	WriteError(w, http.StatusForbidden, errText, "")
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, errText string) {
	WriteError(w, http.StatusNotFound, errText, "")
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, errText string) {
	WriteError(w, http.StatusInternalServerError, errText, "")
}
