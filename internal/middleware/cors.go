package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware разрешает кросс-доменные запросы к API для указанных источников.
// При пустом списке возвращается nil: CORS не включается.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return nil
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
}
