// internal/domain/models/challenge.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Challenge is a sponsor challenge hacks can be entered against.
type Challenge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChallengeID string             `bson:"challengeid" json:"challengeid"`
	Name        string             `bson:"name" json:"name"`
}
