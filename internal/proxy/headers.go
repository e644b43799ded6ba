package proxy

import "net/http"

// copyRequestHeaders copies inbound headers to the outbound request,
// dropping Host: forwarding the client's Host would misdirect an upstream
// that expects its own. The HTTP client fills in the correct Host from the
// target URL.
func copyRequestHeaders(dst, src http.Header) {
	for key, values := range src {
		if http.CanonicalHeaderKey(key) == "Host" {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// copyResponseHeaders copies upstream response headers to the outbound
// response, dropping Transfer-Encoding: the relay has already consumed and
// re-framed the body, so a stale chunked declaration would corrupt the
// client's parsing.
func copyResponseHeaders(dst, src http.Header) {
	for key, values := range src {
		if http.CanonicalHeaderKey(key) == "Transfer-Encoding" {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
