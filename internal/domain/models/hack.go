// internal/domain/models/hack.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Hack is a project entry. Team is set when the hack is entered via the
// team entries sub-resource; Challenges lists the challenges the hack is
// entered against. Both references may dangle after a delete and are
// skipped at read time.
type Hack struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	HackID     string               `bson:"hackid" json:"hackid"`
	Name       string               `bson:"name" json:"name"`
	Team       *primitive.ObjectID  `bson:"team,omitempty" json:"team,omitempty"`
	Challenges []primitive.ObjectID `bson:"challenges" json:"challenges"`
}
