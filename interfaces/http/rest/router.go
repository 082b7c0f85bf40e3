// Package rest wires the hypermedia API onto a chi router. Every resource
// lives under /api/ with a trailing slash, matching the URLs the documents'
// controls hand out.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"imagenet-browser/infrastructure/config"
	"imagenet-browser/interfaces/http/rest/handlers"
	"imagenet-browser/interfaces/http/rest/middleware"
)

// NewRouter assembles the full route table.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	entryHandler *handlers.EntryHandler,
	synsetHandler *handlers.SynsetHandler,
	imageHandler *handlers.ImageHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", entryHandler.Get)

		r.Route("/synsets", func(r chi.Router) {
			r.Get("/", synsetHandler.List)
			r.Post("/", synsetHandler.Create)

			r.Route("/{wnid}", func(r chi.Router) {
				r.Get("/", synsetHandler.Get)
				r.Put("/", synsetHandler.Update)
				r.Delete("/", synsetHandler.Delete)

				r.Route("/hyponyms", func(r chi.Router) {
					r.Get("/", synsetHandler.ListHyponyms)
					r.Post("/", synsetHandler.LinkHyponym)
					r.Get("/{child_wnid}/", synsetHandler.GetHyponym)
					r.Delete("/{child_wnid}/", synsetHandler.DetachHyponym)
				})

				r.Route("/images", func(r chi.Router) {
					r.Get("/", imageHandler.ListBySynset)
					r.Post("/", imageHandler.Create)
					r.Get("/{image_id}/", imageHandler.Get)
					r.Put("/{image_id}/", imageHandler.Update)
					r.Delete("/{image_id}/", imageHandler.Delete)
				})
			})
		})

		r.Get("/images/", imageHandler.ListAll)
	})

	return r
}
