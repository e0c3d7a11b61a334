// internal/app/features/attendees/routes.go
package attendees

import (
	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/system/apiauth"
	"github.com/hack24/api/internal/app/system/jsonapi"
)

// Routes returns the /attendees subrouter. Every data endpoint requires
// admin credentials.
func Routes(h *Handler, gate *apiauth.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(gate.RequireUser, gate.RequireAdmin).Get("/", h.List)
	r.With(jsonapi.AllowAllOrigins).Options("/", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAdmin).Post("/", h.Create)

	r.With(gate.RequireUser, gate.RequireAdmin).Get("/{attendeeID}", h.Get)
	r.With(jsonapi.AllowAllOrigins).Options("/{attendeeID}", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAdmin).Delete("/{attendeeID}", h.Delete)

	return r
}
