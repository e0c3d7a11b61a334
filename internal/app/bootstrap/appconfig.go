// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, timeouts); AppConfig is everything specific to the Hack24
// API: the Mongo connection, the basic-auth secrets, the Slack
// credentials used for attendee identity lookups, and the event relay
// endpoint.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Basic-auth secrets for the mutation endpoints
	AdminUsername   string // Admin account username
	AdminPassword   string // Admin account password
	HackbotPassword string // Shared password accepted with an attendee identity

	// Slack identity lookup
	SlackAPIToken string // Token for users.info calls
	SlackAPIURL   string // API base URL override (blank means slack.com)

	// Event relay
	PusherURL string // Relay base URL including the app path (e.g., https://relay/apps/123)
}
