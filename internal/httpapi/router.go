package httpapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"stencil/internal/httpapi/handlers"
	"stencil/internal/httpkit"
	"stencil/internal/pkg/logger"
	"stencil/internal/pkg/metrics"
	"stencil/internal/pkg/middleware"
	"stencil/internal/ports"
	"stencil/internal/service"
)

type Deps struct {
	Store ports.TemplateStore
	Log   *logger.Logger
	IDs   service.IDGenerator
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Recovery(d.Log))
	r.Use(metrics.Middleware)

	// ---- CORS (Swagger UI + frontend) ----
	allowedOrigins := envCSV("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:8081",
		"http://localhost:5173",
	})
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(handlers.Deps{
		Store: d.Store,
		Log:   d.Log,
		IDs:   d.IDs,
	})

	// ---- HEALTH ----
	r.Get("/health", h.Health)

	// ---- METRICS ----
	r.Handle("/metrics", metrics.Handler())

	// ---- TEMPLATES ----
	r.Post("/templates", h.PostTemplate)

	return r
}

func envCSV(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
