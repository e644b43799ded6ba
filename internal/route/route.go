// Package route derives local proxy routes from upstream URLs and builds
// the immutable route table the gateway serves from.
package route

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Spec is the normalized descriptor for one upstream resource. It is a pure
// value: once derived it is never mutated.
type Spec struct {
	Host     string // upstream hostname
	Port     int    // upstream port, 1-65535
	Path     string // upstream resource path, may be empty ("/" semantically)
	Protocol string // "http" or "https"
	Route    string // canonical local path: /ws/{port}{path}, trailing slashes stripped
}

// Target returns the upstream base URL for this spec, without query string.
// An empty Path is emitted as "/".
func (s Spec) Target() string {
	path := s.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s://%s:%d%s", s.Protocol, s.Host, s.Port, path)
}

// Derive parses an absolute http(s) URL into a Spec. It is deterministic:
// the same input always yields byte-identical fields.
//
// URLs that are not absolute (missing scheme or host), use a non-http scheme,
// or carry an out-of-range port are rejected with an error. Callers building
// a table from discovered URLs treat that error as "skip", not as fatal.
func Derive(rawURL string) (Spec, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Spec{}, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Spec{}, fmt.Errorf("url %q: scheme must be http or https (got %q)", rawURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return Spec{}, fmt.Errorf("url %q: host is required", rawURL)
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Spec{}, fmt.Errorf("url %q: invalid port %q", rawURL, p)
		}
	}
	if port < 1 || port > 65535 {
		return Spec{}, fmt.Errorf("url %q: port must be 1-65535 (got %d)", rawURL, port)
	}

	return Spec{
		Host:     u.Hostname(),
		Port:     port,
		Path:     u.Path,
		Protocol: u.Scheme,
		Route:    localRoute(port, u.Path),
	}, nil
}

// localRoute computes the canonical local path for a (port, path) pair.
// Trailing slashes are stripped so /a/b/ and /a/b land on the same route;
// an empty result is coerced to "/".
func localRoute(port int, path string) string {
	r := strings.TrimRight("/ws/"+strconv.Itoa(port)+path, "/")
	if r == "" {
		r = "/"
	}
	return r
}
