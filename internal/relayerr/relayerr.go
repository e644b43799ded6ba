// Package relayerr defines the gateway's client-facing error contract for
// failed upstream calls.
package relayerr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// UpstreamError wraps a transport-level failure of an outbound call
// (DNS, connection refused, TLS, timeout). Upstream-returned status codes
// are never wrapped in an UpstreamError — those are relayed verbatim.
type UpstreamError struct {
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return "upstream error: " + e.Detail
}

// Unwrap returns the underlying transport error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Response is the JSON body sent to the client when an outbound call fails.
type Response struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// WriteUpstreamError writes the structured upstream-failure response.
//
// The status is 502 unless the error chain carries an upstream-reported
// status via an HTTPStatus() method, in which case that status is
// preferred.
func WriteUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var sc interface{ HTTPStatus() int }
	if errors.As(err, &sc) {
		status = sc.HTTPStatus()
	}

	detail := ""
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		detail = ue.Detail
	case err != nil:
		detail = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: "upstream_error", Detail: detail})
}
