package api

import (
	"encoding/json"
	"io"
	"net/http"
)

// WriteJSON writes a JSON response to the writer.
// It disables HTML escaping for better readability of JSON output.
func WriteJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// WriteError sends an error response with the specified status code.
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{
		"error":   errorCode,
		"message": message,
	}

	_ = WriteJSON(w, response)
}

// WriteSuccess sends a success response with HTTP 200.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return WriteJSON(w, data)
}
