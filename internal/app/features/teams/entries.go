// internal/app/features/teams/entries.go
//
// The /teams/:teamID/entries sub-resource: the hacks a team has entered.
// A hack is entered by at most one team, tracked as a team reference on
// the hack document.
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

// GetEntries handles GET /teams/:teamID/entries with a relationship
// document: identifier data plus full hack resources in included.
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, _, entries, ok := h.loadTeam(ctx, w, chi.URLParam(r, "teamID"))
	if !ok {
		return
	}

	data := make([]jsonapi.ResourceIdentifier, 0, len(entries))
	included := relationships.NewIncluder()
	for _, hack := range entries {
		data = append(data, jsonapi.ResourceIdentifier{Type: "hacks", ID: hack.HackID})
		included.Add(resources.Hack(hack, nil))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: resources.SelfLink("teams", team.TeamID) + "/entries"},
		Data:     data,
		Included: included.Resources(),
	})
}

// AddEntries handles POST /teams/:teamID/entries. Every hack must exist
// and not already be entered by any team; emits one
// teams_update_entries_add event per added hack.
func (h *Handler) AddEntries(w http.ResponseWriter, r *http.Request) {
	identifiers, ok := jsonapi.DecodeIdentifierList(r.Body, "hacks")
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

	hacks, failed := h.resolveEntryHacks(ctx, w, identifiers)
	if failed {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(hacks))
	for _, hack := range hacks {
		if hack.Team != nil {
			jsonapi.BadRequest(w, "One or more of the specified hacks are already entered by a team")
			return
		}
		ids = append(ids, hack.ID)
	}

	if err := h.hacks.SetTeam(ctx, ids, team.ID); err != nil {
		h.log.Error("entry add failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	for _, hack := range hacks {
		h.events.Trigger("teams_update_entries_add", entryEvent{
			TeamID: team.TeamID,
			Name:   team.Name,
			Entry:  entryRef{HackID: hack.HackID, Name: hack.Name},
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveEntries handles DELETE /teams/:teamID/entries. Every listed
// hack must currently be an entry of this team; emits one
// teams_update_entries_remove event per removed hack.
func (h *Handler) RemoveEntries(w http.ResponseWriter, r *http.Request) {
	identifiers, ok := jsonapi.DecodeIdentifierList(r.Body, "hacks")
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

	hacks, failed := h.resolveEntryHacks(ctx, w, identifiers)
	if failed {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(hacks))
	for _, hack := range hacks {
		if hack.Team == nil || *hack.Team != team.ID {
			jsonapi.BadRequest(w, "One or more of the specified hacks are not entries of this team")
			return
		}
		ids = append(ids, hack.ID)
	}

	if err := h.hacks.UnsetTeam(ctx, ids); err != nil {
		h.log.Error("entry remove failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	for _, hack := range hacks {
		h.events.Trigger("teams_update_entries_remove", entryEvent{
			TeamID: team.TeamID,
			Name:   team.Name,
			Entry:  entryRef{HackID: hack.HackID, Name: hack.Name},
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveEntryHacks fetches the hacks named by the identifiers,
// rejecting the request when any are missing. It writes the error
// response itself and reports failure.
func (h *Handler) resolveEntryHacks(ctx context.Context, w http.ResponseWriter, identifiers []jsonapi.ResourceIdentifier) ([]models.Hack, bool) {
	hackIDs := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		hackIDs = append(hackIDs, identifier.ID)
	}

	hacks, err := h.hacks.FindByHackIDs(ctx, hackIDs)
	if err != nil {
		h.log.Error("hack lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return nil, true
	}
	if len(hacks) != len(hackIDs) {
		jsonapi.BadRequest(w, "One or more of the specified hacks could not be found")
		return nil, true
	}
	return hacks, false
}
