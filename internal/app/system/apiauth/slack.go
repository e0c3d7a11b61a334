// internal/app/system/apiauth/slack.go
package apiauth

import (
	"context"
	"errors"

	"github.com/slack-go/slack"
)

// SlackIdentityLookup resolves Slack user IDs to profile emails via the
// Slack Web API. It implements IdentityLookup.
type SlackIdentityLookup struct {
	client *slack.Client
}

// NewSlackIdentityLookup builds a lookup against the Slack Web API.
// apiURL overrides the endpoint for tests and relays; leave it empty for
// the real API.
func NewSlackIdentityLookup(token, apiURL string) *SlackIdentityLookup {
	opts := []slack.Option{}
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	return &SlackIdentityLookup{client: slack.New(token, opts...)}
}

// EmailForUser calls users.info and returns the profile email. Lookups
// are not retried; any transport or API failure rejects the request.
func (l *SlackIdentityLookup) EmailForUser(ctx context.Context, externalID string) (string, error) {
	user, err := l.client.GetUserInfoContext(ctx, externalID)
	if err != nil {
		return "", err
	}
	if user.Profile.Email == "" {
		return "", errors.New("slack profile has no email")
	}
	return user.Profile.Email, nil
}
