package apiserver

import (
	"net/http"

	"github.com/partrace/partrace/internal/api"
)

// corsMiddleware adds CORS headers to allow browser access
// For local development only - allows all origins
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withMethod wraps a handler to enforce HTTP method
func (s *Server) withMethod(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			api.WriteError(w, http.StatusMethodNotAllowed, string(api.ErrorCodeInvalidRequest), "Method not allowed")
			return
		}
		handler(w, r)
	}
}
