// internal/domain/models/team.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Team groups users under a slug id derived from the team name.
//
// Members is an ordered list of users._id references. A user belongs to
// at most one team across the whole collection; that invariant is checked
// by handlers before writes, not enforced by an index.
type Team struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TeamID  string               `bson:"teamid" json:"teamid"`
	Name    string               `bson:"name" json:"name"`
	Motto   *string              `bson:"motto,omitempty" json:"motto,omitempty"`
	Members []primitive.ObjectID `bson:"members" json:"members"`
}
