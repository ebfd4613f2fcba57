// Package module provides prefix-mounted HTTP modules, each with its own
// router and middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/wayfound/atlas/pkg/middleware"
)

// Module is an HTTP handler mounted at a single-level path prefix. Requests
// are dispatched to the inner router with the prefix stripped.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module for the given prefix (e.g. "/api"). Panics if the
// prefix is empty, missing a leading slash, or multi-level; prefixes are
// static wiring and a bad one is a programming error.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Serve strips the module prefix from the request path and dispatches to
// the inner router through the middleware stack.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	stripped := cloneRequest(req, innerPath(req.URL.Path, m.prefix))
	m.middleware.Apply(m.router).ServeHTTP(w, stripped)
}

func cloneRequest(req *http.Request, path string) *http.Request {
	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func innerPath(full, prefix string) string {
	path := full[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be a single-level sub-path: %s", prefix)
	}
	return nil
}
