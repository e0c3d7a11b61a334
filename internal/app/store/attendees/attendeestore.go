// Package attendeestore persists attendee registrations. It also backs
// the auth gate's attendee directory: existence checks by email or slack
// id plus the one-way slack-id link.
package attendeestore

import (
	"context"
	"errors"

	"github.com/hack24/api/internal/app/store"
	"github.com/hack24/api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store accesses the attendees collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendees")}
}

// List returns all attendees sorted by attendeeid ascending.
func (s *Store) List(ctx context.Context) ([]models.Attendee, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"attendeeid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attendees []models.Attendee
	if err := cur.All(ctx, &attendees); err != nil {
		return nil, err
	}
	return attendees, nil
}

// FindByAttendeeID returns the attendee registered under the given email.
func (s *Store) FindByAttendeeID(ctx context.Context, attendeeID string) (*models.Attendee, error) {
	var a models.Attendee
	err := s.c.FindOne(ctx, bson.M{"attendeeid": attendeeID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Insert stores a new attendee. A duplicate attendeeid returns
// store.ErrDuplicateID.
func (s *Store) Insert(ctx context.Context, a models.Attendee) error {
	_, err := s.c.InsertOne(ctx, a)
	return store.TranslateWrite(err)
}

// Delete removes an attendee by attendeeid.
func (s *Store) Delete(ctx context.Context, attendeeID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"attendeeid": attendeeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ExistsByAttendeeID reports whether an attendee is registered under the
// given email.
func (s *Store) ExistsByAttendeeID(ctx context.Context, attendeeID string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"attendeeid": attendeeID}, options.Count().SetLimit(1))
	return count > 0, err
}

// ExistsBySlackID reports whether any attendee is linked to the given
// slack id.
func (s *Store) ExistsBySlackID(ctx context.Context, slackID string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"slackid": slackID}, options.Count().SetLimit(1))
	return count > 0, err
}

// LinkSlackID binds slackID to the attendee registered under attendeeID.
// It reports false when no attendee matches that email. The bind is
// first-writer-wins and never refreshed afterwards.
func (s *Store) LinkSlackID(ctx context.Context, attendeeID, slackID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"attendeeid": attendeeID},
		bson.M{"$set": bson.M{"slackid": slackID}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
