package httpmetrics

import (
	"strings"
	"sync"
)

const unknownRoute = "other"

var (
	routesMu sync.RWMutex
	routes   = map[string]struct{}{
		"/":        {},
		"/health":  {},
		"/metrics": {},
	}
)

// RegisterRoutes adds paths that are reported under their own label.
func RegisterRoutes(paths ...string) {
	routesMu.Lock()
	defer routesMu.Unlock()
	for _, p := range paths {
		routes[strings.TrimSuffix(p, "/")] = struct{}{}
	}
}

// NormalizePath maps a request path onto a bounded label set: registered
// routes keep their path, everything else collapses to "other".
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	trimmed := strings.TrimSuffix(path, "/")

	routesMu.RLock()
	_, ok := routes[trimmed]
	routesMu.RUnlock()
	if ok {
		return trimmed
	}
	return unknownRoute
}
