// internal/app/features/people/routes.go
package people

import (
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServePeople)
	})

	return r
}
