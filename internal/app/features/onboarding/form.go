// internal/app/features/onboarding/form.go
package onboarding

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// ServeForm handles GET /onboard/{memberID}. It serves the static onboarding
// form; the page reads the member id out of its own URL when submitting. The
// id is not validated here, matching the trust placed in the DM link.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "memberID") == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.PublicDir, "onboarding.html"))
}
