package middleware

import "github.com/etwodev/srvconf/pkg/handler"

// Middleware defines the interface for middleware that wraps a
// handler.HandlerFunc and carries metadata such as its name, its status and
// whether it is experimental.
//
// This interface enables middleware management, dynamic enabling/disabling,
// and identification in logs.
type Middleware interface {
	// Method returns the function that wraps a handler.HandlerFunc.
	Method() func(handler.HandlerFunc) handler.HandlerFunc

	// Status returns true if the middleware is enabled, false otherwise.
	Status() bool

	// Experimental returns true if the middleware is experimental or unstable.
	Experimental() bool

	// Name returns the unique name of the middleware.
	Name() string
}

// Chain wraps h with every enabled middleware. The first middleware in mws
// is the outermost, so it sees the traffic first.
//
// Example usage:
//
//	h := middleware.Chain(handler.Echo, middleware.NewLogging(settings.EnableLog, logger))
func Chain(h handler.HandlerFunc, mws ...Middleware) handler.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil || !mws[i].Status() {
			continue
		}
		h = mws[i].Method()(h)
	}
	return h
}
