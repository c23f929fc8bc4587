package access

// Package access implements route classification and the authorization
// gate for browser-facing pages. Both are pure functions over a static
// route table; no I/O happens here.

import "strings"

// RouteClass is the access tier a URL path belongs to.
type RouteClass string

const (
	// ClassPublic pages are reachable without a session.
	ClassPublic RouteClass = "public"
	// ClassRequiresAuth pages need any authenticated session.
	ClassRequiresAuth RouteClass = "requires_auth"
	// ClassRequiresHost pages need the host or admin role.
	ClassRequiresHost RouteClass = "requires_host"
	// ClassRequiresAdmin pages need the admin role.
	ClassRequiresAdmin RouteClass = "requires_admin"
)

// prefixRule binds a path prefix to a route class.
type prefixRule struct {
	prefix string
	class  RouteClass
}

// RouteTable classifies paths by exact-path overrides first, then
// longest-prefix match. The table is static configuration, not user data,
// so classification is deterministic and side-effect-free.
type RouteTable struct {
	// overrides short-circuit the prefix rules. Used for pages that live
	// under a restricted prefix but must stay reachable pre-approval,
	// e.g. the host application status page.
	overrides map[string]RouteClass
	rules     []prefixRule
}

// DefaultRouteTable returns the route table for the booking site.
// Static assets and API routes are never passed through the table;
// the HTTP layer excludes them before classification.
func DefaultRouteTable() *RouteTable {
	t := &RouteTable{
		overrides: map[string]RouteClass{
			// Reachable by any authenticated user even though they sit
			// under the host-only prefix: the application form and the
			// "application pending" status page.
			"/host/register": ClassRequiresAuth,
			"/host/pending":  ClassRequiresAuth,
		},
	}

	for _, p := range []string{"/auth", "/apartments", "/hotels", "/tours", "/search", "/property"} {
		t.addRule(p, ClassPublic)
	}
	for _, p := range []string{"/dashboard", "/bookings", "/wishlist", "/profile"} {
		t.addRule(p, ClassRequiresAuth)
	}
	t.addRule("/host", ClassRequiresHost)
	t.addRule("/admin", ClassRequiresAdmin)
	// Root catch-all keeps classification total: every path maps to a class.
	t.addRule("/", ClassPublic)

	return t
}

// addRule inserts a prefix rule keeping rules ordered longest-prefix first,
// so the most specific rule always wins regardless of insertion order.
func (t *RouteTable) addRule(prefix string, class RouteClass) {
	r := prefixRule{prefix: prefix, class: class}
	for i, existing := range t.rules {
		if len(r.prefix) > len(existing.prefix) {
			t.rules = append(t.rules[:i], append([]prefixRule{r}, t.rules[i:]...)...)
			return
		}
	}
	t.rules = append(t.rules, r)
}

// Classify maps a request path to its route class. It is total: paths that
// match no rule fall through to the root rule and are Public.
func (t *RouteTable) Classify(path string) RouteClass {
	path = normalizePath(path)

	if class, ok := t.overrides[path]; ok {
		return class
	}

	for _, r := range t.rules {
		if matchesPrefix(path, r.prefix) {
			return r.class
		}
	}
	return ClassPublic
}

// matchesPrefix reports whether path falls under prefix on a path-segment
// boundary. "/hostel" must not match the "/host" prefix.
func matchesPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// normalizePath strips a trailing slash (except for the root) so
// "/dashboard/" and "/dashboard" classify identically.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
