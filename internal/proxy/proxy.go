// Package proxy implements the forwarding engine: it replays an inbound
// request against the upstream described by a route.Spec and relays the
// upstream response back verbatim, modulo a small set of normalization
// rules (Host stripped outbound, Transfer-Encoding stripped inbound,
// structured bodies re-serialized as JSON).
//
// It uses http.Client directly instead of httputil.ReverseProxy to keep
// full control over header handling and the error contract.
package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vivars7/wsgate/internal/relayerr"
	"github.com/vivars7/wsgate/internal/route"
)

// DefaultTimeout is the per-call ceiling on an outbound upstream request.
const DefaultTimeout = 15 * time.Second

// Forwarder executes outbound calls and relays their responses. It holds
// no per-request state and is safe for concurrent use.
type Forwarder struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewForwarder creates a Forwarder on the given transport. A zero timeout
// falls back to DefaultTimeout.
func NewForwarder(transport http.RoundTripper, timeout time.Duration, logger *slog.Logger) *Forwarder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Forwarder{
		client:  &http.Client{Transport: transport},
		timeout: timeout,
		logger:  logger,
	}
}

// Relay forwards the inbound request to the upstream described by spec:
// method verbatim, all headers except Host, query string re-encoded, body
// streamed through unmodified. Any upstream status code is a valid
// response and is relayed as-is; only transport failures (DNS, connect,
// TLS, timeout) take the 502 error path.
//
// The outbound call runs on a context detached from the client
// connection: a client that disconnects does not cancel the upstream
// call, which runs to completion or to the timeout. Known limitation,
// kept deliberately — propagating the disconnect would change observable
// timeout behavior.
func (f *Forwarder) Relay(w http.ResponseWriter, r *http.Request, spec route.Spec) error {
	target := spec.Target()
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.Query().Encode()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), f.timeout)
	defer cancel()

	outReq, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		uerr := &relayerr.UpstreamError{Detail: err.Error(), Err: err}
		relayerr.WriteUpstreamError(w, uerr)
		return uerr
	}
	copyRequestHeaders(outReq.Header, r.Header)

	return f.do(w, outReq, spec)
}

// RelayFixed forwards a request on a hand-declared GET-only route. Only
// the inbound query string is part of the contract: inbound headers and
// body are not forwarded. Response relay is identical to Relay.
func (f *Forwarder) RelayFixed(w http.ResponseWriter, r *http.Request, spec route.Spec) error {
	target := spec.Target()
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.Query().Encode()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), f.timeout)
	defer cancel()

	outReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		uerr := &relayerr.UpstreamError{Detail: err.Error(), Err: err}
		relayerr.WriteUpstreamError(w, uerr)
		return uerr
	}

	return f.do(w, outReq, spec)
}

// do executes the outbound request and relays the response or failure.
func (f *Forwarder) do(w http.ResponseWriter, outReq *http.Request, spec route.Spec) error {
	resp, err := f.client.Do(outReq)
	if err != nil {
		uerr := &relayerr.UpstreamError{Detail: err.Error(), Err: err}
		f.logger.Warn("upstream call failed",
			"route", spec.Route,
			"target", spec.Target(),
			"error", err,
		)
		relayerr.WriteUpstreamError(w, uerr)
		return uerr
	}
	defer resp.Body.Close()

	return f.relayResponse(w, resp, spec)
}

// relayResponse consumes the upstream response and emits it: status
// verbatim, headers minus Transfer-Encoding, body dispatched on its
// classified shape. Content-Length is recomputed from the re-framed
// payload.
func (f *Forwarder) relayResponse(w http.ResponseWriter, resp *http.Response, spec route.Spec) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		uerr := &relayerr.UpstreamError{Detail: err.Error(), Err: err}
		f.logger.Warn("reading upstream body failed",
			"route", spec.Route,
			"error", err,
		)
		relayerr.WriteUpstreamError(w, uerr)
		return uerr
	}

	body := ClassifyBody(resp.Header.Get("Content-Type"), data)
	payload, err := body.Bytes()
	if err != nil {
		uerr := &relayerr.UpstreamError{Detail: err.Error(), Err: err}
		relayerr.WriteUpstreamError(w, uerr)
		return uerr
	}

	copyResponseHeaders(w.Header(), resp.Header)
	if len(payload) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	} else {
		w.Header().Del("Content-Length")
	}
	w.WriteHeader(resp.StatusCode)
	if len(payload) > 0 {
		w.Write(payload)
	}
	return nil
}
