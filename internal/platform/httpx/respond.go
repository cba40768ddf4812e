// Package httpx is the web-edge toolkit: JSON envelope helpers and the single
// place where domain errors become HTTP status codes. Nothing below this
// boundary writes to the response directly.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape consumed by the dashboard.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`

	// MissingPermissions accompanies FORBIDDEN responses so callers can tell
	// which grants they lack.
	MissingPermissions []string `json:"missing_permissions,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK wraps data in a success envelope with status 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created wraps data in a success envelope with status 201.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent reports success without a body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
