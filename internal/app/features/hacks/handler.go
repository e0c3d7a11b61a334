// Package hacks serves the /hacks resource and its challenges
// sub-resource. Hack ids are slugs of the hack name.
package hacks

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

// HackStore is the store surface this feature needs.
type HackStore interface {
	List(ctx context.Context, nameFilter string) ([]models.Hack, error)
	FindByHackID(ctx context.Context, hackID string) (*models.Hack, error)
	Insert(ctx context.Context, h models.Hack) error
	Delete(ctx context.Context, hackID string) error
	AddChallenges(ctx context.Context, hackID string, challenges []primitive.ObjectID) error
}

// ChallengeDirectory resolves challenge references for hacks.
type ChallengeDirectory interface {
	FindByChallengeIDs(ctx context.Context, challengeIDs []string) ([]models.Challenge, error)
	FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Challenge, error)
}

// Broadcaster is the event fan-out surface.
type Broadcaster interface {
	Trigger(name string, data any)
}

type hackEvent struct {
	HackID string `json:"hackid"`
	Name   string `json:"name"`
}

// Handler holds the hacks feature dependencies.
type Handler struct {
	hacks      HackStore
	challenges ChallengeDirectory
	events     Broadcaster
	log        *zap.Logger
}

// NewHandler constructs a hacks Handler.
func NewHandler(hacks HackStore, challenges ChallengeDirectory, events Broadcaster, logger *zap.Logger) *Handler {
	return &Handler{hacks: hacks, challenges: challenges, events: events, log: logger}
}

// List handles GET /hacks with optional filter[name]. Referenced
// challenges ride along in included, each once.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hacks, err := h.hacks.List(ctx, r.URL.Query().Get("filter[name]"))
	if err != nil {
		h.log.Error("hack list failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	challenges, err := h.resolveChallenges(ctx, hacks)
	if err != nil {
		h.log.Error("challenge lookup failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	data := make([]jsonapi.ResourceObject, 0, len(hacks))
	included := relationships.NewIncluder()
	for _, hack := range hacks {
		data = append(data, resources.Hack(hack, challenges))
		for _, c := range challengesOf(hack, challenges) {
			included.Add(resources.Challenge(c))
		}
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: "/hacks"},
		Data:     data,
		Included: included.Resources(),
	})
}

// Get handles GET /hacks/:hackID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
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

	included := relationships.NewIncluder()
	for _, c := range challengesOf(*hack, challenges) {
		included.Add(resources.Challenge(c))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links:    &jsonapi.SelfLink{Self: resources.SelfLink("hacks", hack.HackID)},
		Data:     resources.Hack(*hack, challenges),
		Included: included.Resources(),
	})
}

// Create handles POST /hacks. The id is the slug of the name; emits a
// hacks_add event on success.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := jsonapi.DecodeRequest(r.Body, "hacks")
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

	hack := models.Hack{
		HackID: normalize.Slug(name),
		Name:   name,
	}
	err := h.hacks.Insert(ctx, hack)
	if errors.Is(err, store.ErrDuplicateID) {
		jsonapi.Conflict(w)
		return
	}
	if err != nil {
		h.log.Error("hack insert failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	h.events.Trigger("hacks_add", hackEvent{HackID: hack.HackID, Name: hack.Name})

	jsonapi.Created(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("hacks", hack.HackID)},
		Data:  resources.Hack(hack, nil),
	})
}

// Delete handles DELETE /hacks/:hackID. Team entries pointing at the
// hack go dangling; reads skip them.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	hackID := chi.URLParam(r, "hackID")
	if hackID == "" {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.hacks.Delete(ctx, hackID)
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("hack delete failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveChallenges fetches every challenge referenced by the given
// hacks. Dangling references simply come back unresolved.
func (h *Handler) resolveChallenges(ctx context.Context, hacks []models.Hack) ([]models.Challenge, error) {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, hack := range hacks {
		for _, id := range hack.Challenges {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return h.challenges.FindByObjectIDs(ctx, ids)
}

// challengesOf returns the hack's challenges in stored reference order,
// dropping references that did not resolve.
func challengesOf(hack models.Hack, challenges []models.Challenge) []models.Challenge {
	byID := make(map[primitive.ObjectID]models.Challenge, len(challenges))
	for _, c := range challenges {
		byID[c.ID] = c
	}
	ordered := make([]models.Challenge, 0, len(hack.Challenges))
	for _, id := range hack.Challenges {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
