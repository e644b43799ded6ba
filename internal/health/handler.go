// Package health provides the trivial health-check endpoint.
package health

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON body for GET /health.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Handler serves the health-check endpoint. The gateway has no dependency
// whose failure it could report: the route table is immutable and upstream
// reachability is a per-request concern, so health is always "ok" while
// the process serves.
type Handler struct {
	version string
}

// NewHandler creates a health handler reporting the given build version.
func NewHandler(version string) *Handler {
	return &Handler{version: version}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{Status: "ok", Version: h.version})
}
