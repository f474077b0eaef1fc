// Package middleware provides an ordered HTTP middleware stack plus the
// request logging and CORS middleware used by service modules.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware. Middleware added
// first wraps outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	*s = append(*s, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(*s) - 1; i >= 0; i-- {
		wrapped = (*s)[i](wrapped)
	}
	return wrapped
}
