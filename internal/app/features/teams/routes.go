// internal/app/features/teams/routes.go
package teams

import (
	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/system/apiauth"
	"github.com/hack24/api/internal/app/system/jsonapi"
)

// Routes returns the /teams subrouter.
func Routes(h *Handler, gate *apiauth.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(jsonapi.AllowAllOrigins).Get("/", h.List)
	r.With(jsonapi.AllowAllOrigins).Options("/", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendee).Post("/", h.Create)

	r.With(jsonapi.AllowAllOrigins).Get("/{teamID}", h.Get)
	r.With(jsonapi.AllowAllOrigins).Options("/{teamID}", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendee).Patch("/{teamID}", h.Update)
	r.With(gate.RequireUser, gate.RequireAdmin).Delete("/{teamID}", h.Delete)

	r.With(jsonapi.AllowAllOrigins).Get("/{teamID}/members", h.GetMembers)
	r.With(jsonapi.AllowAllOrigins).Options("/{teamID}/members", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendee).Post("/{teamID}/members", h.AddMembers)
	r.With(gate.RequireUser, gate.RequireAttendee).Delete("/{teamID}/members", h.RemoveMembers)

	r.With(jsonapi.AllowAllOrigins).Get("/{teamID}/entries", h.GetEntries)
	r.With(jsonapi.AllowAllOrigins).Options("/{teamID}/entries", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendee).Post("/{teamID}/entries", h.AddEntries)
	r.With(gate.RequireUser, gate.RequireAttendee).Delete("/{teamID}/entries", h.RemoveEntries)

	return r
}
