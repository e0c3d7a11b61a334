// internal/app/features/teams/members.go
//
// The /teams/:teamID/members sub-resource. Adds enforce the global
// exclusivity invariant: a user belongs to at most one team. All checks
// run to completion before the single membership write, so a rejected
// request leaves every team's roster untouched.
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hack24/api/internal/app/resources"
	"github.com/hack24/api/internal/app/store"
	"github.com/hack24/api/internal/app/system/jsonapi"
	"github.com/hack24/api/internal/app/system/relationships"
	"github.com/hack24/api/internal/app/system/timeouts"
	"github.com/hack24/api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GetMembers handles GET /teams/:teamID/members with a relationship
// document: identifier data plus full user resources in included.
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, members, _, ok := h.loadTeam(ctx, w, chi.URLParam(r, "teamID"))
	if !ok {
		return
	}

	ordered := resources.OrderMembers(*team, members)
	data := make([]jsonapi.ResourceIdentifier, 0, len(ordered))
	included := relationships.NewIncluder()
	for _, u := range ordered {
		data = append(data, jsonapi.ResourceIdentifier{Type: "users", ID: u.UserID})
		included.Add(resources.MemberUser(u, *team))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: resources.SelfLink("teams", team.TeamID) + "/members"},
		Data:     data,
		Included: included.Resources(),
	})
}

// AddMembers handles POST /teams/:teamID/members. Emits one
// teams_update_members_add event per added member.
func (h *Handler) AddMembers(w http.ResponseWriter, r *http.Request) {
	identifiers, ok := jsonapi.DecodeIdentifierList(r.Body, "users")
	if !ok {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := h.teams.FindByTeamID(ctx, chi.URLParam(r, "teamID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("team fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	userIDs := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		userIDs = append(userIDs, identifier.ID)
	}

	users, failed := h.checkNewMembers(ctx, w, team, userIDs)
	if failed {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	if err := h.teams.AddMembers(ctx, team.TeamID, ids); err != nil {
		h.log.Error("member add failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	for _, u := range users {
		h.events.Trigger("teams_update_members_add", memberEvent{
			TeamID: team.TeamID,
			Name:   team.Name,
			Member: memberRef{UserID: u.UserID, Name: u.Name},
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMembers handles DELETE /teams/:teamID/members. Every listed
// user must currently be a member; emits one teams_update_members_remove
// event per removed member.
func (h *Handler) RemoveMembers(w http.ResponseWriter, r *http.Request) {
	identifiers, ok := jsonapi.DecodeIdentifierList(r.Body, "users")
	if !ok {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := h.teams.FindByTeamID(ctx, chi.URLParam(r, "teamID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("team fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	userIDs := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		userIDs = append(userIDs, identifier.ID)
	}

	users, err := h.users.FindByUserIDs(ctx, userIDs)
	if err != nil {
		h.log.Error("user lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	current := make(map[primitive.ObjectID]bool, len(team.Members))
	for _, id := range team.Members {
		current[id] = true
	}
	if len(users) != len(userIDs) {
		jsonapi.BadRequest(w, "One or more of the specified users are not members of this team")
		return
	}
	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		if !current[u.ID] {
			jsonapi.BadRequest(w, "One or more of the specified users are not members of this team")
			return
		}
		ids = append(ids, u.ID)
	}

	if err := h.teams.RemoveMembers(ctx, team.TeamID, ids); err != nil {
		h.log.Error("member remove failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	for _, u := range users {
		h.events.Trigger("teams_update_members_remove", memberEvent{
			TeamID: team.TeamID,
			Name:   team.Name,
			Member: memberRef{UserID: u.UserID, Name: u.Name},
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkNewMembers runs the three membership pre-checks in order:
// already a member of this team, user does not exist, already a member
// of any team. It writes the error response itself and reports failure;
// on success it returns the resolved users in request order.
func (h *Handler) checkNewMembers(ctx context.Context, w http.ResponseWriter, team *models.Team, userIDs []string) ([]models.User, bool) {
	if team != nil && len(team.Members) > 0 {
		current, err := h.users.FindByObjectIDs(ctx, team.Members)
		if err != nil {
			h.log.Error("member lookup failed", zap.Error(err))
			jsonapi.InternalServerError(w)
			return nil, true
		}
		currentIDs := make(map[string]bool, len(current))
		for _, u := range current {
			currentIDs[u.UserID] = true
		}
		for _, id := range userIDs {
			if currentIDs[id] {
				jsonapi.BadRequest(w, "One or more users are already members of this team")
				return nil, true
			}
		}
	}

	users, err := h.users.FindByUserIDs(ctx, userIDs)
	if err != nil {
		h.log.Error("user lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return nil, true
	}
	if len(users) != len(userIDs) {
		jsonapi.BadRequest(w, "One or more of the specified users could not be found")
		return nil, true
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	teams, err := h.teams.FindByMembers(ctx, ids)
	if err != nil {
		h.log.Error("team lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return nil, true
	}
	if len(teams) > 0 {
		jsonapi.BadRequest(w, "One or more of the specified users are already in a team")
		return nil, true
	}

	ordered := make([]models.User, 0, len(userIDs))
	byUserID := make(map[string]models.User, len(users))
	for _, u := range users {
		byUserID[u.UserID] = u
	}
	for _, id := range userIDs {
		ordered = append(ordered, byUserID[id])
	}
	return ordered, false
}
