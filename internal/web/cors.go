package web

import "net/http"

// coverExposedHeaders are the response headers a browser page may read
// from a cover response.
const coverExposedHeaders = "Content-Length, X-Cover-Seed, X-Cover-Pattern"

// WithDevCORS lets a catalog page served from another origin fetch covers
// and read their seed and pattern headers.
// Only requests carrying an Origin header are touched; preflights are
// answered here and never reach the API.
//
// Use it only when ServerConfig.DevMode is enabled.
func WithDevCORS(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Expose-Headers", coverExposedHeaders)

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
