// Package router assembles the API's route table and middleware chain.
//
// Routes use the method-qualified patterns of net/http's ServeMux, so a
// request with the right path but the wrong method gets 405 and an unknown
// path gets 404 without any extra code here.
//
// Route table:
//
//	GET  /api/users  → student.GetList
//	POST /api/users  → student.New
//	GET  /healthz    → health.Check
//
// There are no update or delete routes.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/aanand-mishra/students-registration/internal/http/handlers/health"
	"github.com/aanand-mishra/students-registration/internal/http/handlers/student"
	"github.com/aanand-mishra/students-registration/internal/http/middleware"
	"github.com/aanand-mishra/students-registration/internal/storage"
)

// Options carries the settings the routes need besides the store.
type Options struct {
	// QueryTimeout bounds each data store call made by a handler.
	QueryTimeout time.Duration

	// AllowedOrigins is passed to the CORS middleware. "*" allows any.
	AllowedOrigins []string
}

// route is one row of the table: method and path form the ServeMux
// pattern, handler is the closure built by the handler's factory.
type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

// routes is the complete API surface. Every handler gets the same store
// and the same per-call timeout.
func routes(store storage.Storage, opts Options) []route {
	return []route{
		{http.MethodGet, "/api/users", student.GetList(store, opts.QueryTimeout)},
		{http.MethodPost, "/api/users", student.New(store, opts.QueryTimeout)},
		{http.MethodGet, "/healthz", health.Check(store, opts.QueryTimeout)},
	}
}

// New builds the handler for the API service. Middleware order, outermost
// first:
//
//  1. CORS: answers preflights before any other work is done.
//  2. Request id: tags the request and puts a scoped logger in its context.
//  3. Access log: one line per request, using that logger.
//  4. Recover: turns a handler panic into a 500 envelope.
func New(store storage.Storage, log *slog.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()
	for _, rt := range routes(store, opts) {
		mux.HandleFunc(rt.method+" "+rt.path, rt.handler)
	}

	// The browser only ever sends JSON bodies and may send its own request
	// id; it may read the id back from the response.
	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	// Wrapped inside out, so the last wrapper runs first.
	var h http.Handler = mux
	h = middleware.Recover(h)
	h = middleware.AccessLog(h)
	h = middleware.RequestID(log)(h)
	return c.Handler(h)
}
