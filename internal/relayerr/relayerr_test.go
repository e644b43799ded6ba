package relayerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteUpstreamError_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUpstreamError(rec, &UpstreamError{Detail: "dial tcp: connection refused"})

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Error != "upstream_error" {
		t.Errorf(`error = %q, want "upstream_error"`, body.Error)
	}
	if body.Detail != "dial tcp: connection refused" {
		t.Errorf("detail = %q, want the failure message", body.Detail)
	}
}

// statusCarrier simulates a transport error that carries an
// upstream-reported status.
type statusCarrier struct {
	status int
}

func (e *statusCarrier) Error() string   { return fmt.Sprintf("upstream reported %d", e.status) }
func (e *statusCarrier) HTTPStatus() int { return e.status }

func TestWriteUpstreamError_PrefersCarriedStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	inner := &statusCarrier{status: http.StatusGatewayTimeout}
	WriteUpstreamError(rec, &UpstreamError{Detail: inner.Error(), Err: inner})

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want carried 504 over generic 502", rec.Code)
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	inner := errors.New("tls: handshake failure")
	err := &UpstreamError{Detail: inner.Error(), Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() cannot reach the wrapped transport error")
	}
}
