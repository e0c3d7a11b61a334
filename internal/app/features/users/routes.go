// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/system/apiauth"
	"github.com/hack24/api/internal/app/system/jsonapi"
)

// Routes returns the /users subrouter.
func Routes(h *Handler, gate *apiauth.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(jsonapi.AllowAllOrigins).Get("/", h.List)
	r.With(jsonapi.AllowAllOrigins).Options("/", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAttendeeOrAdmin).Post("/", h.Create)

	r.With(jsonapi.AllowAllOrigins).Get("/{userID}", h.Get)
	r.With(jsonapi.AllowAllOrigins).Options("/{userID}", jsonapi.NoContent)

	return r
}
