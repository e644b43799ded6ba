package proxy

import (
	"encoding/json"
	"mime"
	"strings"
)

// BodyKind tags the shape of a decoded upstream response body. Relay
// behavior dispatches on the tag, independent of the HTTP client.
type BodyKind int

const (
	// BodyEmpty is an absent or zero-length body.
	BodyEmpty BodyKind = iota
	// BodyStructured is a body the relay decoded into a structured value
	// (the upstream declared a JSON content type and the payload parsed).
	BodyStructured
	// BodyRaw is anything else: text or opaque bytes, relayed unchanged.
	BodyRaw
)

// Body is the tagged result of classifying an upstream response body.
type Body struct {
	Kind       BodyKind
	Structured any    // set when Kind == BodyStructured
	Raw        []byte // set when Kind == BodyRaw
}

// ClassifyBody decides how an upstream body is relayed. A declared JSON
// content type whose payload does not actually parse falls back to raw
// passthrough rather than failing the relay.
func ClassifyBody(contentType string, data []byte) Body {
	if len(data) == 0 {
		return Body{Kind: BodyEmpty}
	}
	if isJSONContentType(contentType) {
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			return Body{Kind: BodyStructured, Structured: v}
		}
	}
	return Body{Kind: BodyRaw, Raw: data}
}

// Bytes returns the payload to emit for this body. Structured values are
// re-serialized as JSON; raw bodies pass through byte-for-byte.
func (b Body) Bytes() ([]byte, error) {
	switch b.Kind {
	case BodyStructured:
		return json.Marshal(b.Structured)
	case BodyRaw:
		return b.Raw, nil
	default:
		return nil, nil
	}
}

// isJSONContentType reports whether the media type is JSON, including
// suffixed types like application/problem+json.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
