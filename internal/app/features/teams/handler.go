// Package teams serves the /teams resource and its members and entries
// sub-resources.
//
// Teams are the hub of the data model: members reference users, entries
// reference hacks, and most of the compound-document composition in the
// API happens here. Membership carries a global exclusivity invariant (a
// user belongs to at most one team) that is checked before every write;
// the checks and the write are not wrapped in a transaction, so two
// racing requests can both pass the checks. That race is documented, not
// hidden.
package teams

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/resources"
	"github.com/hack24/api/internal/app/store"
	"github.com/hack24/api/internal/app/system/jsonapi"
	"github.com/hack24/api/internal/app/system/normalize"
	"github.com/hack24/api/internal/app/system/relationships"
	"github.com/hack24/api/internal/app/system/timeouts"
	"github.com/hack24/api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TeamStore is the store surface this feature needs.
type TeamStore interface {
	List(ctx context.Context, nameFilter string) ([]models.Team, error)
	FindByTeamID(ctx context.Context, teamID string) (*models.Team, error)
	FindByMembers(ctx context.Context, members []primitive.ObjectID) ([]models.Team, error)
	Insert(ctx context.Context, t models.Team) error
	UpdateMotto(ctx context.Context, teamID, motto string) error
	AddMembers(ctx context.Context, teamID string, members []primitive.ObjectID) error
	RemoveMembers(ctx context.Context, teamID string, members []primitive.ObjectID) error
	Delete(ctx context.Context, teamID string) error
}

// UserDirectory resolves user references for team members.
type UserDirectory interface {
	FindByUserIDs(ctx context.Context, userIDs []string) ([]models.User, error)
	FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// HackDirectory resolves hack references for team entries.
type HackDirectory interface {
	FindByTeam(ctx context.Context, team primitive.ObjectID) ([]models.Hack, error)
	FindByTeams(ctx context.Context, teams []primitive.ObjectID) ([]models.Hack, error)
	FindByHackIDs(ctx context.Context, hackIDs []string) ([]models.Hack, error)
	SetTeam(ctx context.Context, hacks []primitive.ObjectID, team primitive.ObjectID) error
	UnsetTeam(ctx context.Context, hacks []primitive.ObjectID) error
}

// Broadcaster is the event fan-out surface.
type Broadcaster interface {
	Trigger(name string, data any)
}

type teamEvent struct {
	TeamID string  `json:"teamid"`
	Name   string  `json:"name"`
	Motto  *string `json:"motto"`
}

type memberRef struct {
	UserID string `json:"userid"`
	Name   string `json:"name"`
}

type memberEvent struct {
	TeamID string    `json:"teamid"`
	Name   string    `json:"name"`
	Member memberRef `json:"member"`
}

type entryRef struct {
	HackID string `json:"hackid"`
	Name   string `json:"name"`
}

type entryEvent struct {
	TeamID string   `json:"teamid"`
	Name   string   `json:"name"`
	Entry  entryRef `json:"entry"`
}

// Handler holds the teams feature dependencies.
type Handler struct {
	teams  TeamStore
	users  UserDirectory
	hacks  HackDirectory
	events Broadcaster
	log    *zap.Logger
}

// NewHandler constructs a teams Handler.
func NewHandler(teams TeamStore, users UserDirectory, hacks HackDirectory, events Broadcaster, logger *zap.Logger) *Handler {
	return &Handler{teams: teams, users: users, hacks: hacks, events: events, log: logger}
}

// List handles GET /teams with optional filter[name]. Member users and
// entered hacks ride along in included, each distinct resource once in
// first-seen order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teams, err := h.teams.List(ctx, r.URL.Query().Get("filter[name]"))
	if err != nil {
		h.log.Error("team list failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	memberIDs := make([]primitive.ObjectID, 0)
	teamIDs := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		memberIDs = append(memberIDs, t.Members...)
		teamIDs = append(teamIDs, t.ID)
	}

	var members []models.User
	if len(memberIDs) > 0 {
		members, err = h.users.FindByObjectIDs(ctx, memberIDs)
		if err != nil {
			h.log.Error("member lookup failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return
		}
	}

	var entries []models.Hack
	if len(teamIDs) > 0 {
		entries, err = h.hacks.FindByTeams(ctx, teamIDs)
		if err != nil {
			h.log.Error("entry lookup failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return
		}
	}

	data := make([]jsonapi.ResourceObject, 0, len(teams))
	included := relationships.NewIncluder()
	for _, t := range teams {
		teamEntries := entriesOf(t, entries)
		data = append(data, resources.TeamWithEntries(t, members, teamEntries))
		for _, u := range resources.OrderMembers(t, members) {
			included.Add(resources.MemberUser(u, t))
		}
		for _, hack := range teamEntries {
			included.Add(resources.Hack(hack, nil))
		}
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: "/teams"},
		Data:     data,
		Included: included.Resources(),
	})
}

// Get handles GET /teams/:teamID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, members, entries, ok := h.loadTeam(ctx, w, chi.URLParam(r, "teamID"))
	if !ok {
		return
	}

	included := relationships.NewIncluder()
	for _, u := range resources.OrderMembers(*team, members) {
		included.Add(resources.MemberUser(u, *team))
	}
	for _, hack := range entries {
		included.Add(resources.Hack(hack, nil))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: resources.SelfLink("teams", team.TeamID)},
		Data:     resources.TeamWithEntries(*team, members, entries),
		Included: included.Resources(),
	})
}

// Create handles POST /teams. The id is the slug of the name; an
// optional members relationship seeds the roster, subject to the same
// membership checks as a members add. Emits a teams_add event.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := jsonapi.DecodeRequest(r.Body, "teams")
	if !ok || res.ID != "" {
		jsonapi.BadRequest(w)
		return
	}

	var attrs struct {
		Name  *string `json:"name"`
		Motto *string `json:"motto"`
	}
	if res.Attributes == nil || json.Unmarshal(res.Attributes, &attrs) != nil || attrs.Name == nil {
		jsonapi.BadRequest(w)
		return
	}
	name := normalize.Name(*attrs.Name)
	if name == "" {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var initialMembers []models.User
	if rel, found := res.Relationships["members"]; found {
		var identifiers []jsonapi.ResourceIdentifier
		if json.Unmarshal(rel.Data, &identifiers) != nil {
			jsonapi.BadRequest(w)
			return
		}
		userIDs := make([]string, 0, len(identifiers))
		for _, identifier := range identifiers {
			if identifier.Type != "users" || identifier.ID == "" {
				jsonapi.BadRequest(w)
				return
			}
			userIDs = append(userIDs, identifier.ID)
		}

		if len(userIDs) > 0 {
			users, failed := h.checkNewMembers(ctx, w, nil, userIDs)
			if failed {
				return
			}
			initialMembers = users
		}
	}

	memberIDs := make([]primitive.ObjectID, 0, len(initialMembers))
	for _, u := range initialMembers {
		memberIDs = append(memberIDs, u.ID)
	}

	team := models.Team{
		TeamID:  normalize.Slug(name),
		Name:    name,
		Motto:   attrs.Motto,
		Members: memberIDs,
	}
	err := h.teams.Insert(ctx, team)
	if errors.Is(err, store.ErrDuplicateID) {
		jsonapi.Conflict(w)
		return
	}
	if err != nil {
		h.log.Error("team insert failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	h.events.Trigger("teams_add", teamEvent{TeamID: team.TeamID, Name: team.Name, Motto: team.Motto})

	jsonapi.Created(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("teams", team.TeamID)},
		Data:  resources.TeamWithEntries(team, initialMembers, nil),
	})
}

// Update handles PATCH /teams/:teamID. Only the motto is updatable; a
// name change is silently ignored and a payload with no attribute
// changes is a no-op. Either way the response is 204.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	res, ok := jsonapi.DecodeRequest(r.Body, "teams")
	if !ok || res.ID != teamID {
		jsonapi.BadRequest(w)
		return
	}

	var attrs struct {
		Motto *string `json:"motto"`
	}
	if res.Attributes != nil && json.Unmarshal(res.Attributes, &attrs) != nil {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if attrs.Motto == nil {
		// No-op update; still confirm the team exists.
		_, err := h.teams.FindByTeamID(ctx, teamID)
		if errors.Is(err, store.ErrNotFound) {
			jsonapi.NotFound(w)
			return
		}
		if err != nil {
			h.log.Error("team fetch failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	err := h.teams.UpdateMotto(ctx, teamID, *attrs.Motto)
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("team update failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /teams/:teamID. Entries pointing at the team go
// dangling; reads skip them.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	if teamID == "" {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.teams.Delete(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("team delete failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadTeam fetches a team plus its member users and entered hacks,
// writing the error response itself when anything fails.
func (h *Handler) loadTeam(ctx context.Context, w http.ResponseWriter, teamID string) (*models.Team, []models.User, []models.Hack, bool) {
	team, err := h.teams.FindByTeamID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return nil, nil, nil, false
	}
	if err != nil {
		h.log.Error("team fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return nil, nil, nil, false
	}

	var members []models.User
	if len(team.Members) > 0 {
		members, err = h.users.FindByObjectIDs(ctx, team.Members)
		if err != nil {
			h.log.Error("member lookup failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return nil, nil, nil, false
		}
	}

	entries, err := h.hacks.FindByTeam(ctx, team.ID)
	if err != nil {
		h.log.Error("entry lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return nil, nil, nil, false
	}

	return team, members, entries, true
}

// entriesOf returns the hacks entered by the given team.
func entriesOf(t models.Team, hacks []models.Hack) []models.Hack {
	entries := make([]models.Hack, 0)
	for _, hack := range hacks {
		if hack.Team != nil && *hack.Team == t.ID {
			entries = append(entries, hack)
		}
	}
	return entries
}
