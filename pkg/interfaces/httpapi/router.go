package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter wires the kitchen routes. Every route but /healthz requires
// the X-User-ID header.
func NewRouter(h *Handler, allowedOrigins []string, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", UserHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: !allowsAnyOrigin(allowedOrigins),
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		r.Route("/consumptions", func(r chi.Router) {
			r.Get("/", h.ListConsumptions)
			r.Post("/", h.ConfirmConsumption)
			r.Post("/preview", h.PreviewConsumption)
			r.Post("/batch", h.ConfirmBatch)
			r.Get("/summary", h.Summary)
			r.Put("/{consumption_id}", h.RenameConsumption)
		})

		r.Post("/recipes/fix-ingredients", h.FixIngredientLinks)
		r.Post("/recipes/cleanup-duplicates", h.CleanupDuplicates)
	})

	return r
}

// allowsAnyOrigin reports a wildcard origin, which cannot be combined with
// credentialed requests
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
