package handlers

import (
	"log"
	"net/http"
	"time"

	"imagequest/internal/auth"
	"imagequest/internal/security"
)

// Header names of the HTTP surface.
const (
	HeaderUserID        = "x-user-id"
	HeaderAdminPassword = "x-admin-password"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	admin   *auth.AdminPassword
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(admin *auth.AdminPassword, limiter *security.RateLimiter) *Middleware {
	return &Middleware{admin: admin, limiter: limiter}
}

// RequireAdmin guards admin routes behind the x-admin-password header.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		password := r.Header.Get(HeaderAdminPassword)
		if password == "" || !m.admin.Verify(password) {
			respondError(w, http.StatusUnauthorized, "Unauthorized: invalid admin password", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles a handler per client IP.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// CORS allows any origin; the API is consumed by a browser frontend served
// elsewhere.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-user-id, x-admin-password")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
