// internal/api/routes/routes.go
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stratum-labs/stratum/internal/api/handlers"
	"github.com/stratum-labs/stratum/internal/engine"
	"github.com/stratum-labs/stratum/internal/history"
	"github.com/stratum-labs/stratum/internal/runner"
	"github.com/stratum-labs/stratum/internal/storage/leveldb"
)

func SetupRouter(dec *engine.Decomposer, cache *leveldb.Client, hist history.Store, run *runner.Runner) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})

	// Initialize handlers
	decompositionHandler := handlers.NewDecompositionHandler(dec, cache, hist, run)
	mergeHandler := handlers.NewMergeHandler()

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/decompositions", func(r chi.Router) {
			r.Post("/", decompositionHandler.Create)
			r.Get("/", decompositionHandler.List)
			r.Get("/{id}", decompositionHandler.Get)
			r.Post("/{id}/execute", decompositionHandler.Execute)
		})

		r.Post("/merge", mergeHandler.Merge)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	return r
}
