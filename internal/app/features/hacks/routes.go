// internal/app/features/hacks/routes.go
package hacks

import (
	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/system/apiauth"
	"github.com/hack24/api/internal/app/system/jsonapi"
)

// Routes returns the /hacks subrouter.
func Routes(h *Handler, gate *apiauth.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(jsonapi.AllowAllOrigins).Get("/", h.List)
	r.With(jsonapi.AllowAllOrigins).Options("/", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendee).Post("/", h.Create)

	r.With(jsonapi.AllowAllOrigins).Get("/{hackID}", h.Get)
	r.With(jsonapi.AllowAllOrigins).Options("/{hackID}", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAdmin).Delete("/{hackID}", h.Delete)

	r.With(jsonapi.AllowAllOrigins).Get("/{hackID}/challenges", h.GetChallenges)
	r.With(jsonapi.AllowAllOrigins).Options("/{hackID}/challenges", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendee).Post("/{hackID}/challenges", h.AttachChallenges)

	return r
}
