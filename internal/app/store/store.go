// Package store defines the sentinel errors shared by the per-collection
// stores and the translation from driver errors to them. Handlers match
// on these to choose a status code without knowing the driver.
package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no document matches the external id.
var ErrNotFound = errors.New("store: document not found")

// ErrDuplicateID is returned when a write violates a unique index;
// handlers map it to 409.
var ErrDuplicateID = errors.New("store: duplicate id")

// TranslateWrite maps driver write errors onto the shared sentinels.
// Unique-index violations become ErrDuplicateID; anything else passes
// through for the handler's catch-all 500 boundary.
func TranslateWrite(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateID
	}
	return err
}
