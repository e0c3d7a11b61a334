// Package attendees serves the /attendees resource. The whole surface is
// admin-only: attendee registration data is not public.
package attendees

import (
	"context"
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

// AttendeeStore is the store surface this feature needs.
type AttendeeStore interface {
	List(ctx context.Context) ([]models.Attendee, error)
	FindByAttendeeID(ctx context.Context, attendeeID string) (*models.Attendee, error)
	Insert(ctx context.Context, a models.Attendee) error
	Delete(ctx context.Context, attendeeID string) error
}

// Handler holds the attendees feature dependencies.
type Handler struct {
	attendees AttendeeStore
	log       *zap.Logger
}

// NewHandler constructs an attendees Handler.
func NewHandler(attendees AttendeeStore, logger *zap.Logger) *Handler {
	return &Handler{attendees: attendees, log: logger}
}

// List handles GET /attendees.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	attendees, err := h.attendees.List(ctx)
	if err != nil {
		h.log.Error("attendee list failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	data := make([]jsonapi.ResourceObject, 0, len(attendees))
	for _, a := range attendees {
		data = append(data, resources.Attendee(a))
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: "/attendees"},
		Data:  data,
	})
}

// Get handles GET /attendees/:attendeeID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	attendee, err := h.attendees.FindByAttendeeID(ctx, chi.URLParam(r, "attendeeID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("attendee fetch failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	jsonapi.OK(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("attendees", attendee.AttendeeID)},
		Data:  resources.Attendee(*attendee),
	})
}

// Create handles POST /attendees. Attendees are keyed by email, supplied
// as the resource id; there are no server-generated slugs here.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	res, ok := jsonapi.DecodeRequest(r.Body, "attendees")
	if !ok || res.ID == "" {
		jsonapi.BadRequest(w)
		return
	}
	attendeeID := normalize.Email(res.ID)
	if attendeeID == "" {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	attendee := models.Attendee{AttendeeID: attendeeID}
	err := h.attendees.Insert(ctx, attendee)
	if errors.Is(err, store.ErrDuplicateID) {
		jsonapi.Conflict(w)
		return
	}
	if err != nil {
		h.log.Error("attendee insert failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	jsonapi.Created(w, jsonapi.TopLevelDocument{
		Links: &jsonapi.SelfLink{Self: resources.SelfLink("attendees", attendee.AttendeeID)},
		Data:  resources.Attendee(attendee),
	})
}

// Delete handles DELETE /attendees/:attendeeID.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	attendeeID := chi.URLParam(r, "attendeeID")
	if attendeeID == "" {
		jsonapi.BadRequest(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.attendees.Delete(ctx, attendeeID)
	if errors.Is(err, store.ErrNotFound) {
		jsonapi.NotFound(w)
		return
	}
	if err != nil {
		h.log.Error("attendee delete failed", zap.Error(err))
		jsonapi.InternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
