// Package teamstore persists teams and their ordered member reference
// lists.
package teamstore

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

// Store accesses the teams collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// List returns teams sorted by teamid ascending, optionally filtered by
// a case-insensitive name substring (escaped before compiling).
func (s *Store) List(ctx context.Context, nameFilter string) ([]models.Team, error) {
	query := bson.M{}
	if nameFilter != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(nameFilter), Options: "i"}
	}

	cur, err := s.c.Find(ctx, query, options.Find().SetSort(bson.M{"teamid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// FindByTeamID returns the team with the given slug id.
func (s *Store) FindByTeamID(ctx context.Context, teamID string) (*models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"teamid": teamID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByMember returns the team whose member list contains the given
// user reference, or store.ErrNotFound when the user is teamless.
func (s *Store) FindByMember(ctx context.Context, member primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"members": member}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByMembers returns every team containing any of the given user
// references. Used for the global membership-exclusivity check.
func (s *Store) FindByMembers(ctx context.Context, members []primitive.ObjectID) ([]models.Team, error) {
	cur, err := s.c.Find(ctx, bson.M{"members": bson.M{"$in": members}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Insert stores a new team. A duplicate teamid returns
// store.ErrDuplicateID.
func (s *Store) Insert(ctx context.Context, t models.Team) error {
	if t.Members == nil {
		t.Members = []primitive.ObjectID{}
	}
	_, err := s.c.InsertOne(ctx, t)
	return store.TranslateWrite(err)
}

// UpdateMotto sets the team motto. Name is immutable after creation
// because the slug id derives from it.
func (s *Store) UpdateMotto(ctx context.Context, teamID, motto string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"teamid": teamID},
		bson.M{"$set": bson.M{"motto": motto}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddMembers appends user references to the member list, preserving
// order of the given slice.
func (s *Store) AddMembers(ctx context.Context, teamID string, members []primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"teamid": teamID},
		bson.M{"$push": bson.M{"members": bson.M{"$each": members}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RemoveMembers removes user references from the member list.
func (s *Store) RemoveMembers(ctx context.Context, teamID string, members []primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"teamid": teamID},
		bson.M{"$pull": bson.M{"members": bson.M{"$in": members}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a team by teamid. Hacks entered by the team keep their
// dangling reference; reads skip it.
func (s *Store) Delete(ctx context.Context, teamID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"teamid": teamID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
