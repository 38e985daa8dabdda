package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns a CORS handler restricted to origins. Requests from other
// origins pass through without any Access-Control-* headers. Preflight
// requests from listed origins are answered with 200 and no body.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}
