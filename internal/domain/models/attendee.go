// internal/domain/models/attendee.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Attendee is an event-registration identity. The attendeeid is the
// registered email address; slackid is bound lazily the first time the
// attendee authenticates with a Slack user ID and is never refreshed.
type Attendee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AttendeeID string             `bson:"attendeeid" json:"attendeeid"`
	SlackID    *string            `bson:"slackid,omitempty" json:"slackid,omitempty"`
}
