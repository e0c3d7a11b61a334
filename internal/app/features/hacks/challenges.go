// internal/app/features/hacks/challenges.go
//
// The /hacks/:hackID/challenges sub-resource: the challenges a hack is
// entered against.
package hacks

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

// GetChallenges handles GET /hacks/:hackID/challenges with a
// relationship document: identifier data plus the full challenge
// resources in included.
func (h *Handler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hack, err := h.hacks.FindByHackID(ctx, chi.URLParam(r, "hackID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("hack fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	challenges, err := h.resolveChallenges(ctx, []models.Hack{*hack})
	if err != nil {
		h.log.Error("challenge lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	data := make([]jsonapi.ResourceIdentifier, 0, len(hack.Challenges))
	included := relationships.NewIncluder()
	for _, c := range challengesOf(*hack, challenges) {
		data = append(data, jsonapi.ResourceIdentifier{Type: "challenges", ID: c.ChallengeID})
		included.Add(resources.Challenge(c))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: resources.SelfLink("hacks", hack.HackID) + "/challenges"},
		Data:     data,
		Included: included.Resources(),
	})
}

// AttachChallenges handles POST /hacks/:hackID/challenges. All checks
// run before the single write; nothing is attached on any failure.
func (h *Handler) AttachChallenges(w http.ResponseWriter, r *http.Request) {
	identifiers, ok := jsonapi.DecodeIdentifierList(r.Body, "challenges")
	if !ok {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hack, err := h.hacks.FindByHackID(ctx, chi.URLParam(r, "hackID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("hack fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	challengeIDs := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		challengeIDs = append(challengeIDs, identifier.ID)
	}

	challenges, err := h.challenges.FindByChallengeIDs(ctx, challengeIDs)
	if err != nil {
		h.log.Error("challenge lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}
	if len(challenges) != len(challengeIDs) {
		jsonapi.BadRequest(w, "One or more of the specified challenges could not be found")
		return
	}

	attached := make(map[primitive.ObjectID]bool, len(hack.Challenges))
	for _, id := range hack.Challenges {
		attached[id] = true
	}
	toAdd := make([]primitive.ObjectID, 0, len(challenges))
	for _, c := range challenges {
		if attached[c.ID] {
			jsonapi.BadRequest(w, "One or more challenges are already challenges of this hack")
			return
		}
		toAdd = append(toAdd, c.ID)
	}

	if err := h.hacks.AddChallenges(ctx, hack.HackID, toAdd); err != nil {
		h.log.Error("challenge attach failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
