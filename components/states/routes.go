package states

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full path of the component route under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	return joinPath(basePath, NewOptions(fns...).RoutePath)
}

// RegisterRoutes registers the state handler under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers the handler with a method-qualified
// pattern ("GET /api/states"), which also serves HEAD. The returned string is
// the mounted path.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("states: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	path := joinPath(basePath, opts.RoutePath)
	mux.Handle(http.MethodGet+" "+path, HandlerWithOptions(opts))
	return path, nil
}

func joinPath(basePath, routePath string) string {
	base := "/" + strings.Trim(strings.TrimSpace(basePath), "/")
	route := "/" + strings.TrimLeft(strings.TrimSpace(routePath), "/")
	if base == "/" {
		return route
	}
	return base + route
}
