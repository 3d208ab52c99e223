package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/astrostore/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware магазина.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.DecompressRequest)
	r.Use(chimiddleware.Compress(5, "application/json", "text/plain"))
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cart/getService", h.GetServiceSummaries)

		// Без базы данных доступен только каталог.
		if h.service != nil {
			r.Route("/user", func(r chi.Router) {
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
			})

			r.Route("/blog", func(r chi.Router) {
				r.Get("/", h.ListPosts)
				r.Get("/{slug}", h.GetPost)

				r.Group(func(r chi.Router) {
					r.Use(h.authMiddleware.Middleware)

					r.Post("/{slug}/like", h.LikePost)
					r.Post("/{slug}/comments", h.CommentPost)

					r.Group(func(r chi.Router) {
						r.Use(custommiddleware.RequireAdmin)

						r.Post("/", h.CreatePost)
						r.Post("/{slug}/publish", h.PublishPost)
						r.Get("/{slug}/preview", h.PreviewPost)
					})
				})
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Use(custommiddleware.RequireAdmin)

			r.Post("/admin/services", h.RegisterService)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
