// Package hackstore persists hacks (project entries) and their team and
// challenge references.
package hackstore

import (
	"context"
	"errors"
	"regexp"

	"github.com/hack24/api/internal/app/store"
	"github.com/hack24/api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store accesses the hacks collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("hacks")}
}

// List returns hacks sorted by hackid ascending, optionally filtered by
// a case-insensitive name substring (escaped before compiling).
func (s *Store) List(ctx context.Context, nameFilter string) ([]models.Hack, error) {
	query := bson.M{}
	if nameFilter != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(nameFilter), Options: "i"}
	}

	cur, err := s.c.Find(ctx, query, options.Find().SetSort(bson.M{"hackid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hacks []models.Hack
	if err := cur.All(ctx, &hacks); err != nil {
		return nil, err
	}
	return hacks, nil
}

// FindByHackID returns the hack with the given slug id.
func (s *Store) FindByHackID(ctx context.Context, hackID string) (*models.Hack, error) {
	var h models.Hack
	err := s.c.FindOne(ctx, bson.M{"hackid": hackID}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// FindByHackIDs returns the hacks matching any of the given slug ids.
func (s *Store) FindByHackIDs(ctx context.Context, hackIDs []string) ([]models.Hack, error) {
	cur, err := s.c.Find(ctx, bson.M{"hackid": bson.M{"$in": hackIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hacks []models.Hack
	if err := cur.All(ctx, &hacks); err != nil {
		return nil, err
	}
	return hacks, nil
}

// FindByTeam returns the hacks entered by the given team, sorted by
// hackid ascending.
func (s *Store) FindByTeam(ctx context.Context, team primitive.ObjectID) ([]models.Hack, error) {
	cur, err := s.c.Find(ctx, bson.M{"team": team}, options.Find().SetSort(bson.M{"hackid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hacks []models.Hack
	if err := cur.All(ctx, &hacks); err != nil {
		return nil, err
	}
	return hacks, nil
}

// FindByTeams returns the hacks entered by any of the given teams,
// sorted by hackid ascending.
func (s *Store) FindByTeams(ctx context.Context, teams []primitive.ObjectID) ([]models.Hack, error) {
	cur, err := s.c.Find(ctx, bson.M{"team": bson.M{"$in": teams}}, options.Find().SetSort(bson.M{"hackid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hacks []models.Hack
	if err := cur.All(ctx, &hacks); err != nil {
		return nil, err
	}
	return hacks, nil
}

// Insert stores a new hack. A duplicate hackid returns
// store.ErrDuplicateID.
func (s *Store) Insert(ctx context.Context, h models.Hack) error {
	if h.Challenges == nil {
		h.Challenges = []primitive.ObjectID{}
	}
	_, err := s.c.InsertOne(ctx, h)
	return store.TranslateWrite(err)
}

// SetTeam points the given hacks at a team (team entries add).
func (s *Store) SetTeam(ctx context.Context, hacks []primitive.ObjectID, team primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": hacks}},
		bson.M{"$set": bson.M{"team": team}})
	return err
}

// UnsetTeam clears the team reference from the given hacks (team entries
// remove).
func (s *Store) UnsetTeam(ctx context.Context, hacks []primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": hacks}},
		bson.M{"$unset": bson.M{"team": ""}})
	return err
}

// AddChallenges appends challenge references to a hack.
func (s *Store) AddChallenges(ctx context.Context, hackID string, challenges []primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"hackid": hackID},
		bson.M{"$push": bson.M{"challenges": bson.M{"$each": challenges}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a hack by hackid.
func (s *Store) Delete(ctx context.Context, hackID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"hackid": hackID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
