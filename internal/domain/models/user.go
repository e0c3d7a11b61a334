// internal/domain/models/user.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a competing identity created through the API. It is distinct
// from Attendee: users compete in teams, attendees authenticate.
// The userid is client-supplied (typically a Slack user ID).
type User struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"userid" json:"userid"`
	Name   string             `bson:"name" json:"name"`
}
