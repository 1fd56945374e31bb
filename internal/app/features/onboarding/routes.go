// internal/app/features/onboarding/routes.go
package onboarding

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/onboarding", h.ServeSubmit)
	r.Get("/onboard/{memberID}", h.ServeForm)
	return r
}
