package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/FaleProxy/internal/handlers"
	"github.com/Totarae/FaleProxy/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор.
// assets отдаются как статика: GET / возвращает index.html.
func NewRouter(handler *handlers.Handler, logger *zap.Logger, assets fs.FS, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие
	if cors := middleware.CORSMiddleware(corsOrigins); cors != nil {
		r.Use(cors)
	}

	r.Post("/fetch", handler.FetchPage)
	r.Get("/health", handler.Health)

	static := http.FileServer(http.FS(assets))
	r.Get("/*", static.ServeHTTP)
	r.Head("/*", static.ServeHTTP)
	return r
}
