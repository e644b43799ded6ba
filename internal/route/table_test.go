package route

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ── Build ──

func TestBuild_DuplicateURLsCollapse(t *testing.T) {
	table, collisions := Build([]string{
		"https://dev.example.com/sensors",
		"https://dev.example.com/sensors",
	})

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	if len(collisions) != 0 {
		t.Errorf("collisions = %v, want none for identical strings", collisions)
	}
	if _, ok := table.Lookup("/ws/443/sensors"); !ok {
		t.Error("expected /ws/443/sensors in table")
	}
}

func TestBuild_InvalidEntriesDropped(t *testing.T) {
	table, _ := Build([]string{
		"not a url",
		"http://h:8080/x",
	})

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	want := []string{"/ws/8080/x"}
	if diff := cmp.Diff(want, table.Routes()); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_CollisionLastWriterWins(t *testing.T) {
	// Both normalize to /ws/443/a/b; the later one must own the route.
	table, collisions := Build([]string{
		"https://h/a/b/",
		"https://h/a/b",
	})

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	spec, ok := table.Lookup("/ws/443/a/b")
	if !ok {
		t.Fatal("expected /ws/443/a/b in table")
	}
	if spec.Path != "/a/b" {
		t.Errorf("stored Path = %q, want the later entry %q", spec.Path, "/a/b")
	}

	if len(collisions) != 1 {
		t.Fatalf("collisions = %d, want 1", len(collisions))
	}
	c := collisions[0]
	if c.Route != "/ws/443/a/b" {
		t.Errorf("collision Route = %q, want /ws/443/a/b", c.Route)
	}
	if c.Previous.Path != "/a/b/" || c.Replacement.Path != "/a/b" {
		t.Errorf("collision = {prev %q, new %q}, want {/a/b/, /a/b}", c.Previous.Path, c.Replacement.Path)
	}
}

func TestBuild_CollisionKeepsRoutePosition(t *testing.T) {
	table, _ := Build([]string{
		"http://a:1/first",
		"http://b:2/second",
		"http://c:1/first/", // collides with the first entry
	})

	want := []string{"/ws/1/first", "/ws/2/second"}
	if diff := cmp.Diff(want, table.Routes()); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
	spec, _ := table.Lookup("/ws/1/first")
	if spec.Host != "c" {
		t.Errorf("colliding route Host = %q, want last writer %q", spec.Host, "c")
	}
}

func TestBuild_Empty(t *testing.T) {
	table, collisions := Build(nil)
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
	if len(collisions) != 0 {
		t.Errorf("collisions = %v, want none", collisions)
	}
	if routes := table.Routes(); routes == nil || len(routes) != 0 {
		t.Errorf("Routes() = %v, want empty non-nil slice", routes)
	}
}

// ── Table accessors ──

func TestTable_RoutesIsACopy(t *testing.T) {
	table, _ := Build([]string{"http://h:8080/x"})
	routes := table.Routes()
	routes[0] = "/mutated"
	if got := table.Routes()[0]; got != "/ws/8080/x" {
		t.Errorf("table mutated through Routes() copy: %q", got)
	}
}

// ── NewFixedTable ──

func TestNewFixedTable(t *testing.T) {
	table, err := NewFixedTable([]FixedEndpoint{
		{Path: "/api/system", URL: "http://device:8000/system"},
		{Path: "/api/alerts", URL: "http://device:8000/alerts"},
	})
	if err != nil {
		t.Fatalf("NewFixedTable() error: %v", err)
	}

	want := []string{"/api/system", "/api/alerts"}
	if diff := cmp.Diff(want, table.Routes()); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}

	spec, ok := table.Lookup("/api/system")
	if !ok {
		t.Fatal("expected /api/system in table")
	}
	// Local route is the declared path, not the derived /ws form.
	if spec.Route != "/api/system" {
		t.Errorf("Route = %q, want declared path", spec.Route)
	}
	if spec.Host != "device" || spec.Port != 8000 || spec.Path != "/system" {
		t.Errorf("spec = %+v, want device:8000/system", spec)
	}
}

func TestNewFixedTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []FixedEndpoint
	}{
		{
			name:    "invalid url",
			entries: []FixedEndpoint{{Path: "/api/x", URL: "not a url"}},
		},
		{
			name:    "path without leading slash",
			entries: []FixedEndpoint{{Path: "api/x", URL: "http://device:8000/x"}},
		},
		{
			name: "duplicate path",
			entries: []FixedEndpoint{
				{Path: "/api/x", URL: "http://device:8000/x"},
				{Path: "/api/x", URL: "http://device:8000/y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFixedTable(tt.entries); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
