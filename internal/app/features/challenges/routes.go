// internal/app/features/challenges/routes.go
package challenges

import (
	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/system/apiauth"
	"github.com/hack24/api/internal/app/system/jsonapi"
)

// Routes returns the /challenges subrouter.
func Routes(h *Handler, gate *apiauth.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(jsonapi.AllowAllOrigins).Get("/", h.List)
	r.With(jsonapi.AllowAllOrigins).Options("/", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAdmin).Post("/", h.Create)

	r.With(jsonapi.AllowAllOrigins).Get("/{challengeID}", h.Get)
	r.With(jsonapi.AllowAllOrigins).Options("/{challengeID}", jsonapi.NoContent)
	r.With(gate.RequireUser, gate.RequireAdmin).Delete("/{challengeID}", h.Delete)

	return r
}
