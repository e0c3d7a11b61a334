// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the Hack24 API.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, admin_username, etc.
//   - Environment variables: HACK24_MONGO_URI, HACK24_ADMIN_USERNAME, etc.
//   - Command-line flags: --mongo_uri, --admin_username, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hack24", Desc: "MongoDB database name"},

	{Name: "admin_username", Default: "", Desc: "Admin basic-auth username"},
	{Name: "admin_password", Default: "", Desc: "Admin basic-auth password"},
	{Name: "hackbot_password", Default: "", Desc: "Shared password for attendee-authenticated requests"},

	{Name: "slack_api_token", Default: "", Desc: "Slack API token for attendee identity lookups"},
	{Name: "slack_api_url", Default: "", Desc: "Slack API base URL override (blank for slack.com)"},

	{Name: "pusher_url", Default: "", Desc: "Event relay base URL including the app path"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HACK24", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		AdminUsername:   appValues.String("admin_username"),
		AdminPassword:   appValues.String("admin_password"),
		HackbotPassword: appValues.String("hackbot_password"),

		SlackAPIToken: appValues.String("slack_api_token"),
		SlackAPIURL:   appValues.String("slack_api_url"),

		PusherURL: appValues.String("pusher_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The auth secrets are required: running without them would leave every
// mutation endpoint either wide open or permanently rejecting.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AdminUsername == "" || appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_username and admin_password must be set")
	}
	if appCfg.HackbotPassword == "" {
		return fmt.Errorf("hackbot_password must be set")
	}
	if appCfg.PusherURL == "" {
		return fmt.Errorf("pusher_url must be set")
	}

	return nil
}
