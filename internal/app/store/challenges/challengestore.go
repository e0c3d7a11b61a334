// Package challengestore persists sponsor challenges.
package challengestore

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

// Store accesses the challenges collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("challenges")}
}

// List returns challenges sorted by challengeid ascending, optionally
// filtered by a case-insensitive name substring (escaped before
// compiling).
func (s *Store) List(ctx context.Context, nameFilter string) ([]models.Challenge, error) {
	query := bson.M{}
	if nameFilter != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(nameFilter), Options: "i"}
	}

	cur, err := s.c.Find(ctx, query, options.Find().SetSort(bson.M{"challengeid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var challenges []models.Challenge
	if err := cur.All(ctx, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// FindByChallengeID returns the challenge with the given slug id.
func (s *Store) FindByChallengeID(ctx context.Context, challengeID string) (*models.Challenge, error) {
	var c models.Challenge
	err := s.c.FindOne(ctx, bson.M{"challengeid": challengeID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByChallengeIDs returns the challenges matching any of the given
// slug ids.
func (s *Store) FindByChallengeIDs(ctx context.Context, challengeIDs []string) ([]models.Challenge, error) {
	cur, err := s.c.Find(ctx, bson.M{"challengeid": bson.M{"$in": challengeIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var challenges []models.Challenge
	if err := cur.All(ctx, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// FindByObjectIDs returns the challenges whose _id is in ids. Missing
// ids are absent from the result; callers tolerate dangling references.
func (s *Store) FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Challenge, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var challenges []models.Challenge
	if err := cur.All(ctx, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// Insert stores a new challenge. A duplicate challengeid returns
// store.ErrDuplicateID.
func (s *Store) Insert(ctx context.Context, c models.Challenge) error {
	_, err := s.c.InsertOne(ctx, c)
	return store.TranslateWrite(err)
}

// Delete removes a challenge by challengeid. Hacks referencing it keep a
// dangling reference; reads skip it.
func (s *Store) Delete(ctx context.Context, challengeID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"challengeid": challengeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
