package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Route("/players", func(r chi.Router) {
			r.Post("/", c.createPlayer)
			r.Get("/", c.listPlayers)
			r.Route("/{player-id}", func(r chi.Router) {
				r.Get("/", c.getPlayer)
				r.Delete("/", c.removePlayer)
				r.Get("/page", c.getPage)
				r.Get("/surface", c.getSurfaceSettings)
				r.Post("/commands/{command}", c.runCommand)
				r.Post("/navigation", c.navigate)
				r.Post("/lifecycle", c.handleLifecycle)
			})
		})
		r.Route("/ws/players/{player-id}", func(r chi.Router) {
			r.Get("/bridge", c.bridge)
			r.Get("/values", c.values)
		})
	})

	return r
}
