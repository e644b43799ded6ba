package config

// DevProfile returns a development configuration for `wsgate init`.
// It listens locally, watches the source file, and logs readable text.
func DevProfile() string {
	return `# wsgate development configuration
listen:
  host: "127.0.0.1"
  port: 8080

source:
  file: "url_to_responses.csv"
  watch: true
  debounce: "2s"

relay:
  timeout: "15s"

# Fixed GET-only routes to the device upstream.
endpoints:
  - path: "/api/system"
    url: "http://192.168.1.1:8000/system"
  - path: "/api/devices"
    url: "http://192.168.1.1:8000/devices"
  - path: "/api/alerts"
    url: "http://192.168.1.1:8000/alerts"

logging:
  level: "debug"
  format: "text"
  output: "stdout"

shutdown:
  timeout: "10s"
`
}

// ProdProfile returns a production configuration for `wsgate init`.
func ProdProfile() string {
	return `# wsgate production configuration
listen:
  host: "0.0.0.0"
  port: 8080
  max_connections: 1000
  global_rate_limit: 5000   # requests per minute, 0 disables

source:
  file: "/etc/wsgate/url_to_responses.csv"
  watch: false

relay:
  timeout: "15s"

endpoints:
  - path: "/api/system"
    url: "http://device.internal:8000/system"
  - path: "/api/devices"
    url: "http://device.internal:8000/devices"
  - path: "/api/alerts"
    url: "http://device.internal:8000/alerts"

logging:
  level: "info"
  format: "json"
  output: "stdout"

shutdown:
  timeout: "30s"
`
}
