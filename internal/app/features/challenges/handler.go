// Package challenges serves the /challenges resource. Challenge ids are
// slugs of the challenge name; creation and deletion are admin-only.
package challenges

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
	"github.com/hack24/api/internal/app/system/timeouts"
	"github.com/hack24/api/internal/domain/models"
	"go.uber.org/zap"
)

// ChallengeStore is the store surface this feature needs.
type ChallengeStore interface {
	List(ctx context.Context, nameFilter string) ([]models.Challenge, error)
	FindByChallengeID(ctx context.Context, challengeID string) (*models.Challenge, error)
	Insert(ctx context.Context, c models.Challenge) error
	Delete(ctx context.Context, challengeID string) error
}

// Handler holds the challenges feature dependencies.
type Handler struct {
	challenges ChallengeStore
	log        *zap.Logger
}

// NewHandler constructs a challenges Handler.
func NewHandler(challenges ChallengeStore, logger *zap.Logger) *Handler {
	return &Handler{challenges: challenges, log: logger}
}

// List handles GET /challenges with optional filter[name].
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	challenges, err := h.challenges.List(ctx, r.URL.Query().Get("filter[name]"))
	if err != nil {
		h.log.Error("challenge list failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	data := make([]jsonapi.ResourceObject, 0, len(challenges))
	for _, c := range challenges {
		data = append(data, resources.Challenge(c))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: "/challenges"},
		Data:  data,
	})
}

// Get handles GET /challenges/:challengeID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	challenge, err := h.challenges.FindByChallengeID(ctx, chi.URLParam(r, "challengeID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("challenge fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("challenges", challenge.ChallengeID)},
		Data:  resources.Challenge(*challenge),
	})
}

// Create handles POST /challenges. The id is server-generated from the
// name; a client-supplied id is a validation failure.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := jsonapi.DecodeRequest(r.Body, "challenges")
	if !ok || res.ID != "" {
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

	challenge := models.Challenge{
		ChallengeID: normalize.Slug(name),
		Name:        name,
	}
	err := h.challenges.Insert(ctx, challenge)
	if errors.Is(err, store.ErrDuplicateID) {
		jsonapi.Conflict(w)
		return
	}
	if err != nil {
		h.log.Error("challenge insert failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	jsonapi.Created(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("challenges", challenge.ChallengeID)},
		Data:  resources.Challenge(challenge),
	})
}

// Delete handles DELETE /challenges/:challengeID. Hacks entered against
// the challenge keep a dangling reference; reads skip it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "challengeID")
	if challengeID == "" {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.challenges.Delete(ctx, challengeID)
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("challenge delete failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
