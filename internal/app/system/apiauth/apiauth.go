// Package apiauth implements the basic-auth gate in front of mutation
// endpoints.
//
// Classification runs Unauthenticated -> Decoded -> Classified:
//   - no Authorization header: 401 with the fixed realm challenge
//   - malformed basic auth (wrong scheme, undecodable, no colon): 403
//   - admin operations require an exact match of the configured admin pair
//   - attendee operations require the shared Hackbot password; the
//     username is the claimed identity, either an attendee email or a
//     Slack user ID that resolves (and lazily links) to an attendee
//
// Every rejection after the 401 case is the identical 403; callers never
// learn which check failed.
package apiauth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"regexp"
	"strings"

	"github.com/hack24/api/internal/app/system/jsonapi"
	"github.com/hack24/api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Secrets holds the deployment credentials. Built once at startup and
// passed by reference; never mutated afterwards.
type Secrets struct {
	AdminUsername   string
	AdminPassword   string
	HackbotPassword string
}

// AttendeeDirectory is the narrow attendee-store surface the gate needs.
type AttendeeDirectory interface {
	ExistsByAttendeeID(ctx context.Context, attendeeID string) (bool, error)
	ExistsBySlackID(ctx context.Context, slackID string) (bool, error)
	// LinkSlackID binds slackID to the attendee registered under
	// attendeeID. It reports false when no such attendee exists.
	LinkSlackID(ctx context.Context, attendeeID, slackID string) (bool, error)
}

// IdentityLookup resolves an external-platform user id to the email the
// platform has on file.
type IdentityLookup interface {
	EmailForUser(ctx context.Context, externalID string) (string, error)
}

var slackUserIDPattern = regexp.MustCompile(`^U[A-Z0-9]{8}$`)

type contextKey int

const credentialsKey contextKey = iota

// Credentials is the decoded basic-auth pair for the current request.
type Credentials struct {
	Username string
	Password string
}

// Gate checks request credentials against the configured secrets and the
// attendee directory.
type Gate struct {
	secrets    Secrets
	attendees  AttendeeDirectory
	identities IdentityLookup
	log        *zap.Logger
}

// NewGate builds a Gate. The directory and identity lookup are only
// consulted for attendee-gated operations.
func NewGate(secrets Secrets, attendees AttendeeDirectory, identities IdentityLookup, logger *zap.Logger) *Gate {
	return &Gate{
		secrets:    secrets,
		attendees:  attendees,
		identities: identities,
		log:        logger,
	}
}

// RequireUser decodes the Authorization header and stores the credential
// pair in the request context. A missing header is 401 with the realm
// challenge; a header that is not well-formed basic auth is 403.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			jsonapi.Unauthorized(w)
			return
		}

		scheme, encoded, found := strings.Cut(header, " ")
		if !found || scheme != "Basic" {
			jsonapi.Forbidden(w)
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			jsonapi.Forbidden(w)
			return
		}

		username, password, found := strings.Cut(string(decoded), ":")
		if !found {
			jsonapi.Forbidden(w)
			return
		}

		creds := Credentials{Username: username, Password: password}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), credentialsKey, creds)))
	})
}

// RequireAdmin allows only the configured admin pair. It must run after
// RequireUser.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := credentialsFrom(r.Context())
		if !ok || !equal(creds.Username, g.secrets.AdminUsername) || !equal(creds.Password, g.secrets.AdminPassword) {
			jsonapi.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAttendee allows requests carrying the shared Hackbot password
// whose claimed identity resolves to a registered attendee. It must run
// after RequireUser.
func (g *Gate) RequireAttendee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := credentialsFrom(r.Context())
		if !ok || !equal(creds.Password, g.secrets.HackbotPassword) {
			jsonapi.Forbidden(w)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
		defer cancel()

		if !g.resolveAttendee(ctx, creds.Username) {
			jsonapi.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAttendeeOrAdmin accepts either the admin pair or attendee
// credentials. It must run after RequireUser.
func (g *Gate) RequireAttendeeOrAdmin(next http.Handler) http.Handler {
	attendee := g.RequireAttendee(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := credentialsFrom(r.Context())
		if ok && equal(creds.Username, g.secrets.AdminUsername) && equal(creds.Password, g.secrets.AdminPassword) {
			next.ServeHTTP(w, r)
			return
		}
		attendee.ServeHTTP(w, r)
	})
}

// resolveAttendee reports whether the claimed identity maps to an
// attendee, performing the lazy Slack-id link on first sight.
func (g *Gate) resolveAttendee(ctx context.Context, identity string) bool {
	if strings.Contains(identity, "@") {
		found, err := g.attendees.ExistsByAttendeeID(ctx, identity)
		if err != nil {
			g.log.Error("attendee lookup failed", zap.Error(err))
			return false
		}
		return found
	}

	if !slackUserIDPattern.MatchString(identity) {
		return false
	}

	linked, err := g.attendees.ExistsBySlackID(ctx, identity)
	if err != nil {
		g.log.Error("attendee lookup by slack id failed", zap.Error(err))
		return false
	}
	if linked {
		return true
	}

	g.log.Info("looking up slack profile", zap.String("slack_id", identity))
	email, err := g.identities.EmailForUser(ctx, identity)
	if err != nil {
		g.log.Error("slack profile lookup failed", zap.String("slack_id", identity), zap.Error(err))
		return false
	}
	g.log.Info("resolved slack profile", zap.String("slack_id", identity), zap.String("email", email))

	// First-writer-wins: bind the slack id to the attendee registered
	// under that email, or reject when no attendee matches.
	bound, err := g.attendees.LinkSlackID(ctx, email, identity)
	if err != nil {
		g.log.Error("slack id link failed", zap.Error(err))
		return false
	}
	return bound
}

func credentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey).(Credentials)
	return creds, ok
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
