// Package http provides the HTTP handlers of the stub SmartCareer API:
// authentication, jobs, resumes and applications, all speaking the
// uniform success/error JSON envelope the client core is written against.
package http

import (
	"encoding/json"
	"net/http"
)

// writeData wraps v in the success envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    v,
	})
}

// writeOK is writeData without a payload.
func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// writeErr wraps code and message in the error envelope.
func writeErr(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}
