// Package userstore persists competing users.
package userstore

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

// Store accesses the users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// List returns users sorted by userid ascending. A non-empty nameFilter
// narrows to names containing it, case-insensitively; the filter text is
// escaped so user input cannot inject pattern syntax.
func (s *Store) List(ctx context.Context, nameFilter string) ([]models.User, error) {
	query := bson.M{}
	if nameFilter != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(nameFilter), Options: "i"}
	}

	cur, err := s.c.Find(ctx, query, options.Find().SetSort(bson.M{"userid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByUserID returns the user with the given external id.
func (s *Store) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"userid": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUserIDs returns the users matching any of the given external
// ids, in no particular order.
func (s *Store) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"userid": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByObjectIDs returns the users whose _id is in ids. Missing ids are
// simply absent from the result; callers tolerate dangling references.
func (s *Store) FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Insert stores a new user. A duplicate userid returns
// store.ErrDuplicateID.
func (s *Store) Insert(ctx context.Context, u models.User) error {
	_, err := s.c.InsertOne(ctx, u)
	return store.TranslateWrite(err)
}

// Delete removes a user by userid. Team member references to the user
// are left dangling deliberately; reads skip them.
func (s *Store) Delete(ctx context.Context, userID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"userid": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
