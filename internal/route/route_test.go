package route

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ── Derive ──

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Spec
	}{
		{
			name: "https default port",
			url:  "https://dev.example.com/sensors",
			want: Spec{Host: "dev.example.com", Port: 443, Path: "/sensors", Protocol: "https", Route: "/ws/443/sensors"},
		},
		{
			name: "http default port",
			url:  "http://dev.example.com/sensors",
			want: Spec{Host: "dev.example.com", Port: 80, Path: "/sensors", Protocol: "http", Route: "/ws/80/sensors"},
		},
		{
			name: "explicit port",
			url:  "http://h:8080/x",
			want: Spec{Host: "h", Port: 8080, Path: "/x", Protocol: "http", Route: "/ws/8080/x"},
		},
		{
			name: "trailing slash stripped from route, kept in path",
			url:  "https://h/a/b/",
			want: Spec{Host: "h", Port: 443, Path: "/a/b/", Protocol: "https", Route: "/ws/443/a/b"},
		},
		{
			name: "empty path",
			url:  "https://h",
			want: Spec{Host: "h", Port: 443, Path: "", Protocol: "https", Route: "/ws/443"},
		},
		{
			name: "root path",
			url:  "http://h:9000/",
			want: Spec{Host: "h", Port: 9000, Path: "/", Protocol: "http", Route: "/ws/9000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.url)
			if err != nil {
				t.Fatalf("Derive(%q) error: %v", tt.url, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Derive(%q) mismatch (-want +got):\n%s", tt.url, diff)
			}
		})
	}
}

func TestDerive_Invalid(t *testing.T) {
	urls := []string{
		"not a url",
		"",
		"/relative/path",
		"example.com/no-scheme",
		"ftp://h/x",
		"http:///no-host",
		"http://h:99999/x",
		"http://h:0/x",
	}

	for _, u := range urls {
		if _, err := Derive(u); err == nil {
			t.Errorf("Derive(%q) = nil error, want invalid", u)
		}
	}
}

// Deriving the same URL twice must yield byte-identical fields.
func TestDerive_Deterministic(t *testing.T) {
	urls := []string{
		"https://dev.example.com/sensors",
		"http://h:8080/x?q=1",
		"https://h/a/b/",
	}

	for _, u := range urls {
		first, err := Derive(u)
		if err != nil {
			t.Fatalf("Derive(%q) error: %v", u, err)
		}
		second, err := Derive(u)
		if err != nil {
			t.Fatalf("Derive(%q) second call error: %v", u, err)
		}
		if first != second {
			t.Errorf("Derive(%q) not deterministic: %+v vs %+v", u, first, second)
		}
	}
}

// ── Target ──

func TestSpec_Target(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Host: "h", Port: 8080, Path: "/x", Protocol: "http"}, "http://h:8080/x"},
		{Spec{Host: "h", Port: 443, Path: "", Protocol: "https"}, "https://h:443/"},
		{Spec{Host: "h", Port: 443, Path: "/a/b/", Protocol: "https"}, "https://h:443/a/b/"},
	}

	for _, tt := range tests {
		if got := tt.spec.Target(); got != tt.want {
			t.Errorf("Target() = %q, want %q", got, tt.want)
		}
	}
}
