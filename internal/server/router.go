// Package server assembles the HTTP surface: middleware chain, API routes
// and the operational endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"bookreview/internal/auth"
	"bookreview/internal/book"
	"bookreview/internal/httpx"
	"bookreview/internal/review"
	"bookreview/internal/search"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers are the domain endpoints mounted under /api.
type Handlers struct {
	Guard   *auth.Guard
	Auth    *auth.HTTPHandler
	Books   *book.HTTPHandler
	Reviews *review.HTTPHandler
	Search  *search.HTTPHandler
}

// Options tune the middleware chain.
type Options struct {
	CORSAllowedOrigins []string
	EnableHSTS         bool
	MaxBodyBytes       int64
	RequestTimeout     time.Duration
	RateLimiter        *httpx.RateLimitMiddleware
}

// NewRouter wires h behind the middleware chain. db backs /readyz.
func NewRouter(h Handlers, db Pinger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(opts.EnableHSTS))
	r.Use(httpx.CORSMiddleware(opts.CORSAllowedOrigins))
	r.Use(httpx.MetricsMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}
		if opts.MaxBodyBytes > 0 {
			r.Use(httpx.RequestSizeLimitMiddleware(opts.MaxBodyBytes))
		}
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}

		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)

		r.Get("/books", h.Books.List)
		r.Post("/books", h.Guard.Require(h.Books.Create))
		r.Get("/books/{id}", h.Books.Get)
		r.Post("/books/{id}/reviews", h.Guard.Require(h.Reviews.Add))

		r.Put("/reviews/{id}", h.Guard.Require(h.Reviews.Update))
		r.Delete("/reviews/{id}", h.Guard.Require(h.Reviews.Delete))

		r.Get("/search", h.Search.Search)
	})

	return r
}
