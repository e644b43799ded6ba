package route

import (
	"fmt"
	"strings"
)

// Table maps local route paths to upstream Specs. It is built once before
// the server accepts traffic and is read-only afterwards, so concurrent
// lookups need no locking.
type Table struct {
	specs  map[string]Spec
	routes []string // insertion order of first registration
}

// Collision records one route-table insertion that replaced an earlier
// entry: two distinct URLs normalized to the same local route. The table
// keeps the replacement (last writer wins); the event exists so callers can
// log it or treat it as fatal.
type Collision struct {
	Route       string
	Previous    Spec
	Replacement Spec
}

// Build constructs a Table from a sequence of upstream URL strings.
//
// Input strings are deduplicated in first-occurrence order before
// derivation. Entries that fail to derive are dropped silently; they never
// abort the build. When two distinct URLs normalize to the same route the
// later one overwrites the earlier, the route keeps its original position,
// and the overwrite is returned as a Collision.
func Build(urls []string) (*Table, []Collision) {
	t := &Table{specs: make(map[string]Spec)}
	var collisions []Collision

	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}

		spec, err := Derive(raw)
		if err != nil {
			continue
		}
		if prev, exists := t.specs[spec.Route]; exists {
			collisions = append(collisions, Collision{
				Route:       spec.Route,
				Previous:    prev,
				Replacement: spec,
			})
			t.specs[spec.Route] = spec
			continue
		}
		t.specs[spec.Route] = spec
		t.routes = append(t.routes, spec.Route)
	}
	return t, collisions
}

// FixedEndpoint declares one hand-configured route: a local path served
// GET-only and its fixed upstream URL.
type FixedEndpoint struct {
	Path string
	URL  string
}

// NewFixedTable builds a Table from declared endpoints. Unlike Build, the
// local route is the declared path, not derived from the URL, and errors
// are fatal: a hand-declared entry that does not parse is a config mistake,
// not a discovery artifact to skip.
func NewFixedTable(entries []FixedEndpoint) (*Table, error) {
	t := &Table{specs: make(map[string]Spec, len(entries))}
	for i, e := range entries {
		if !strings.HasPrefix(e.Path, "/") {
			return nil, fmt.Errorf("endpoints[%d]: path %q must start with /", i, e.Path)
		}
		spec, err := Derive(e.URL)
		if err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		spec.Route = e.Path
		if _, exists := t.specs[e.Path]; exists {
			return nil, fmt.Errorf("endpoints[%d]: duplicate path %q", i, e.Path)
		}
		t.specs[e.Path] = spec
		t.routes = append(t.routes, e.Path)
	}
	return t, nil
}

// Lookup returns the Spec registered at the given local route.
func (t *Table) Lookup(route string) (Spec, bool) {
	s, ok := t.specs[route]
	return s, ok
}

// Routes returns the registered local routes in table order. The returned
// slice is a copy; mutating it does not affect the table.
func (t *Table) Routes() []string {
	out := make([]string, len(t.routes))
	copy(out, t.routes)
	return out
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.specs)
}
