// Package users serves the /users resource.
//
// A user's team membership is not stored on the user document; it is
// derived by looking the user up in teams.members. Reads compose the
// team relationship plus one extra hop: the team and its other members
// ride along in the included section.
package users

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

// UserStore is the store surface this feature needs.
type UserStore interface {
	List(ctx context.Context, nameFilter string) ([]models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Insert(ctx context.Context, u models.User) error
}

// TeamDirectory resolves which team, if any, holds a given user.
type TeamDirectory interface {
	FindByMember(ctx context.Context, member primitive.ObjectID) (*models.Team, error)
	FindByMembers(ctx context.Context, members []primitive.ObjectID) ([]models.Team, error)
}

// Broadcaster is the event fan-out surface.
type Broadcaster interface {
	Trigger(name string, data any)
}

type userEvent struct {
	UserID string `json:"userid"`
	Name   string `json:"name"`
}

// Handler holds the users feature dependencies.
type Handler struct {
	users  UserStore
	teams  TeamDirectory
	events Broadcaster
	log    *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(users UserStore, teams TeamDirectory, events Broadcaster, logger *zap.Logger) *Handler {
	return &Handler{users: users, teams: teams, events: events, log: logger}
}

// List handles GET /users with optional filter[name]. Each user carries
// its team relationship; the distinct teams ride along in included.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.users.List(ctx, r.URL.Query().Get("filter[name]"))
	if err != nil {
		h.log.Error("user list failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var teams []models.Team
	if len(ids) > 0 {
		teams, err = h.teams.FindByMembers(ctx, ids)
		if err != nil {
			h.log.Error("team lookup failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return
		}
	}

	teamByMember := make(map[primitive.ObjectID]*models.Team)
	memberIDs := make([]primitive.ObjectID, 0)
	for i := range teams {
		for _, member := range teams[i].Members {
			teamByMember[member] = &teams[i]
			memberIDs = append(memberIDs, member)
		}
	}

	var memberUsers []models.User
	if len(memberIDs) > 0 {
		memberUsers, err = h.users.FindByObjectIDs(ctx, memberIDs)
		if err != nil {
			h.log.Error("member lookup failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return
		}
	}

	data := make([]jsonapi.ResourceObject, 0, len(users))
	included := relationships.NewIncluder()
	for _, u := range users {
		team := teamByMember[u.ID]
		data = append(data, resources.User(u, team))
		if team != nil && !included.Has("teams", team.TeamID) {
			included.Add(resources.Team(*team, memberUsers))
		}
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: "/users"},
		Data:     data,
		Included: included.Resources(),
	})
}

// Get handles GET /users/:userID. When the user belongs to a team, the
// team and its other members are included.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.users.FindByUserID(ctx, chi.URLParam(r, "userID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("user fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	team, err := h.teams.FindByMember(ctx, user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.log.Error("team lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	doc := jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("users", user.UserID)},
	}

	if team == nil {
		doc.Data = resources.User(*user, nil)
		jsonapi.OK(w, doc)
		return
	}

	members, err := h.users.FindByObjectIDs(ctx, team.Members)
	if err != nil {
		h.log.Error("member lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	included := relationships.NewIncluder()
	included.Add(resources.Team(*team, members))
	for _, member := range resources.OrderMembers(*team, members) {
		if member.UserID == user.UserID {
			continue
		}
		included.Add(resources.MemberUser(member, *team))
	}

	doc.Data = resources.User(*user, team)
	doc.Included = included.Resources()
	jsonapi.OK(w, doc)
}

// Create handles POST /users. Unlike the slug-id resources, the client
// supplies the user id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := jsonapi.DecodeRequest(r.Body, "users")
	if !ok || res.ID == "" {
		jsonapi.BadRequest(w)
		return
	}

	var attrs struct {
		Name *string `json:"name"`
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

	user := models.User{UserID: res.ID, Name: name}
	err := h.users.Insert(ctx, user)
	if errors.Is(err, store.ErrDuplicateID) {
		jsonapi.Conflict(w)
		return
	}
	if err != nil {
		h.log.Error("user insert failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	h.events.Trigger("users_add", userEvent{UserID: user.UserID, Name: user.Name})

	jsonapi.Created(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("users", user.UserID)},
		Data:  resources.User(user, nil),
	})
}
