// Package api holds the HTTP plumbing shared by the handlers: auth, timeouts,
// metrics and rate limiting.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/civicdesk/complaint-dashboard/config"
)

// WriteJSON marshals v and writes it with status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
