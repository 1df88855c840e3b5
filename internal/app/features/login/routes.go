// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes returns the session endpoints; mounted under /api.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Get("/user", h.ServeCurrentUser)
	return r
}
