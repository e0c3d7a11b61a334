// Package resources maps domain entities onto JSON:API resource objects.
//
// Everything here is a pure function: entities in, resource objects out,
// links derived from the external ids. Optional attributes are pointer
// fields without omitempty so an absent value serializes as an explicit
// null, never an omitted member.
package resources

import (
	"net/url"

	"github.com/hack24/api/internal/app/system/jsonapi"
	"github.com/hack24/api/internal/app/system/relationships"
	"github.com/hack24/api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendeeAttributes is the attributes block of an attendee resource.
type AttendeeAttributes struct {
	SlackID *string `json:"slackid"`
}

// UserAttributes is the attributes block of a user resource.
type UserAttributes struct {
	Name string `json:"name"`
}

// TeamAttributes is the attributes block of a team resource.
type TeamAttributes struct {
	Name  string  `json:"name"`
	Motto *string `json:"motto"`
}

// HackAttributes is the attributes block of a hack resource.
type HackAttributes struct {
	Name string `json:"name"`
}

// ChallengeAttributes is the attributes block of a challenge resource.
type ChallengeAttributes struct {
	Name string `json:"name"`
}

// SelfLink returns the canonical URL of a resource.
func SelfLink(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

// Attendee serializes an attendee.
func Attendee(a models.Attendee) jsonapi.ResourceObject {
	return jsonapi.ResourceObject{
		Links:      &jsonapi.SelfLink{Self: SelfLink("attendees", a.AttendeeID)},
		Type:       "attendees",
		ID:         a.AttendeeID,
		Attributes: AttendeeAttributes{SlackID: a.SlackID},
	}
}

// User serializes a user with its team relationship. A nil team
// serializes as a null to-one reference.
func User(u models.User, team *models.Team) jsonapi.ResourceObject {
	var ref *relationships.Ref
	if team != nil {
		ref = &relationships.Ref{Type: "teams", ID: team.TeamID}
	}
	return jsonapi.ResourceObject{
		Links:      &jsonapi.SelfLink{Self: SelfLink("users", u.UserID)},
		Type:       "users",
		ID:         u.UserID,
		Attributes: UserAttributes{Name: u.Name},
		Relationships: map[string]jsonapi.Relationship{
			"team": relationships.ToOne(SelfLink("users", u.UserID)+"/team", ref),
		},
	}
}

// MemberUser serializes a user for inclusion alongside its team. The
// team relationship of an included member links to the team resource
// itself rather than the member's team sub-resource.
func MemberUser(u models.User, team models.Team) jsonapi.ResourceObject {
	ref := &relationships.Ref{Type: "teams", ID: team.TeamID}
	return jsonapi.ResourceObject{
		Links:      &jsonapi.SelfLink{Self: SelfLink("users", u.UserID)},
		Type:       "users",
		ID:         u.UserID,
		Attributes: UserAttributes{Name: u.Name},
		Relationships: map[string]jsonapi.Relationship{
			"team": relationships.ToOne(SelfLink("teams", team.TeamID), ref),
		},
	}
}

// Team serializes a team with its members relationship. Member refs
// follow the stored order; references that no longer resolve to a user
// are omitted rather than failing the document.
func Team(t models.Team, members []models.User) jsonapi.ResourceObject {
	return jsonapi.ResourceObject{
		Links:      &jsonapi.SelfLink{Self: SelfLink("teams", t.TeamID)},
		Type:       "teams",
		ID:         t.TeamID,
		Attributes: TeamAttributes{Name: t.Name, Motto: t.Motto},
		Relationships: map[string]jsonapi.Relationship{
			"members": relationships.ToMany(SelfLink("teams", t.TeamID)+"/members", memberRefs(t, members)),
		},
	}
}

// TeamWithEntries serializes a team with both its members and entries
// relationships.
func TeamWithEntries(t models.Team, members []models.User, entries []models.Hack) jsonapi.ResourceObject {
	obj := Team(t, members)
	refs := make([]relationships.Ref, 0, len(entries))
	for _, h := range entries {
		refs = append(refs, relationships.Ref{Type: "hacks", ID: h.HackID})
	}
	obj.Relationships["entries"] = relationships.ToMany(SelfLink("teams", t.TeamID)+"/entries", refs)
	return obj
}

// OrderMembers arranges fetched users into the team's stored member
// order, dropping references that did not resolve.
func OrderMembers(t models.Team, members []models.User) []models.User {
	byID := make(map[primitive.ObjectID]models.User, len(members))
	for _, u := range members {
		byID[u.ID] = u
	}
	ordered := make([]models.User, 0, len(t.Members))
	for _, id := range t.Members {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered
}

func memberRefs(t models.Team, members []models.User) []relationships.Ref {
	refs := make([]relationships.Ref, 0, len(members))
	for _, u := range OrderMembers(t, members) {
		refs = append(refs, relationships.Ref{Type: "users", ID: u.UserID})
	}
	return refs
}

// Hack serializes a hack with its challenges relationship. Challenge
// refs that no longer resolve are omitted.
func Hack(h models.Hack, challenges []models.Challenge) jsonapi.ResourceObject {
	byID := make(map[primitive.ObjectID]models.Challenge, len(challenges))
	for _, c := range challenges {
		byID[c.ID] = c
	}
	refs := make([]relationships.Ref, 0, len(h.Challenges))
	for _, id := range h.Challenges {
		if c, ok := byID[id]; ok {
			refs = append(refs, relationships.Ref{Type: "challenges", ID: c.ChallengeID})
		}
	}
	return jsonapi.ResourceObject{
		Links:      &jsonapi.SelfLink{Self: SelfLink("hacks", h.HackID)},
		Type:       "hacks",
		ID:         h.HackID,
		Attributes: HackAttributes{Name: h.Name},
		Relationships: map[string]jsonapi.Relationship{
			"challenges": relationships.ToMany(SelfLink("hacks", h.HackID)+"/challenges", refs),
		},
	}
}

// Challenge serializes a challenge.
func Challenge(c models.Challenge) jsonapi.ResourceObject {
	return jsonapi.ResourceObject{
		Links:      &jsonapi.SelfLink{Self: SelfLink("challenges", c.ChallengeID)},
		Type:       "challenges",
		ID:         c.ChallengeID,
		Attributes: ChallengeAttributes{Name: c.Name},
	}
}
