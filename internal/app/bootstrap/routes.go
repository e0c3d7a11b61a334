// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attendeesfeature "github.com/hack24/api/internal/app/features/attendees"
	challengesfeature "github.com/hack24/api/internal/app/features/challenges"
	hacksfeature "github.com/hack24/api/internal/app/features/hacks"
	healthfeature "github.com/hack24/api/internal/app/features/health"
	rootfeature "github.com/hack24/api/internal/app/features/root"
	teamsfeature "github.com/hack24/api/internal/app/features/teams"
	usersfeature "github.com/hack24/api/internal/app/features/users"
	attendeestore "github.com/hack24/api/internal/app/store/attendees"
	challengestore "github.com/hack24/api/internal/app/store/challenges"
	hackstore "github.com/hack24/api/internal/app/store/hacks"
	teamstore "github.com/hack24/api/internal/app/store/teams"
	userstore "github.com/hack24/api/internal/app/store/users"
	"github.com/hack24/api/internal/app/system/apiauth"
	"github.com/hack24/api/internal/app/system/jsonapi"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connection, schema setup,
// and Startup have completed. It builds the per-collection stores, the
// auth gate, and mounts one feature subrouter per resource.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	attendees := attendeestore.New(db)
	users := userstore.New(db)
	teams := teamstore.New(db)
	hacks := hackstore.New(db)
	challenges := challengestore.New(db)

	secrets := apiauth.Secrets{
		AdminUsername:   appCfg.AdminUsername,
		AdminPassword:   appCfg.AdminPassword,
		HackbotPassword: appCfg.HackbotPassword,
	}
	identities := apiauth.NewSlackIdentityLookup(appCfg.SlackAPIToken, appCfg.SlackAPIURL)
	gate := apiauth.NewGate(secrets, attendees, identities, logger)

	r := chi.NewRouter()
	r.Use(jsonapi.Recoverer(logger))

	r.With(jsonapi.AllowAllOrigins).Get("/", rootfeature.Get)
	r.With(jsonapi.AllowAllOrigins).Options("/", jsonapi.NoContent)
	r.Get("/api", rootfeature.Ping)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	attendeesHandler := attendeesfeature.NewHandler(attendees, logger)
	r.Mount("/attendees", attendeesfeature.Routes(attendeesHandler, gate))

	usersHandler := usersfeature.NewHandler(users, teams, deps.Broadcaster, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, gate))

	teamsHandler := teamsfeature.NewHandler(teams, users, hacks, deps.Broadcaster, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler, gate))

	hacksHandler := hacksfeature.NewHandler(hacks, challenges, deps.Broadcaster, logger)
	r.Mount("/hacks", hacksfeature.Routes(hacksHandler, gate))

	challengesHandler := challengesfeature.NewHandler(challenges, logger)
	r.Mount("/challenges", challengesfeature.Routes(challengesHandler, gate))

	return r, nil
}
