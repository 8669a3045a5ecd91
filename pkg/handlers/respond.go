// Package handlers holds the JSON response helpers shared by the endpoint
// packages underneath it.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/khoapp/storefront/pkg/api"
)

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already gone; an encode failure here is only
	// observable in logs upstream.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the generic JSON error body.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, api.ErrorResponse{Error: message})
}
