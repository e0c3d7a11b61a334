// Package indexes creates the unique indexes that back the API's id
// invariants. Duplicate-key violations on these surface as 409 Conflict.
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Index creation is idempotent; problems
are aggregated so startup can fail fast with everything visible.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureAttendees(ctx, db); err != nil {
		problems = append(problems, "attendees: "+err.Error())
	}
	if err := ensureUnique(ctx, db, "users", "userid"); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureUnique(ctx, db, "teams", "teamid"); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureUnique(ctx, db, "hacks", "hackid"); err != nil {
		problems = append(problems, "hacks: "+err.Error())
	}
	if err := ensureUnique(ctx, db, "challenges", "challengeid"); err != nil {
		problems = append(problems, "challenges: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUnique(ctx context.Context, db *mongo.Database, coll, field string) error {
	_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	})
	return err
}

func ensureAttendees(ctx context.Context, db *mongo.Database) error {
	if err := ensureUnique(ctx, db, "attendees", "attendeeid"); err != nil {
		return err
	}
	// slackid is absent until the lazy link happens; sparse keeps the
	// unique constraint off unlinked attendees.
	_, err := db.Collection("attendees").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slackid", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true).SetName("slackid_unique"),
	})
	return err
}
