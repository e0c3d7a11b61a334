// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hack24/api/internal/app/system/broadcast"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Broadcaster is created in Startup and stopped in Shutdown; the
	// request path only ever enqueues into it.
	Broadcaster *broadcast.Broadcaster
}
