package proxy

import (
	"net"
	"net/http"
	"time"
)

// NewTransport creates an http.Transport tuned for request/response
// relaying. Connection reuse across calls is left to the transport; the
// gateway makes no promises about it.
func NewTransport() *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
