// Package root serves the API entry points: the JSON:API root document
// listing the collections, and a plain-text liveness ping.
package root

import (
	"net/http"

	"github.com/hack24/api/internal/app/system/jsonapi"
)

type rootLinks struct {
	Self       string       `json:"self"`
	Teams      jsonapi.Link `json:"teams"`
	Users      jsonapi.Link `json:"users"`
	Attendees  jsonapi.Link `json:"attendees"`
	Hacks      jsonapi.Link `json:"hacks"`
	Challenges jsonapi.Link `json:"challenges"`
}

// Get handles GET / with the root document.
func Get(w http.ResponseWriter, _ *http.Request) {
	jsonapi.OK(w, jsonapi.TopLevelDocument{
		JSONAPI: &jsonapi.VersionInfo{Version: "1.0"},
		Links: rootLinks{
			Self:       "/",
			Teams:      jsonapi.Link{Href: "/teams"},
			Users:      jsonapi.Link{Href: "/users"},
			Attendees:  jsonapi.Link{Href: "/attendees"},
			Hacks:      jsonapi.Link{Href: "/hacks"},
			Challenges: jsonapi.Link{Href: "/challenges"},
		},
	})
}

// Ping handles GET /api with a plain-text liveness message.
func Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hack24 API is running"))
}
