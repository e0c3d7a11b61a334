package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithChiURLParams adds several chi URL parameters at once.
func WithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ResourceBody builds a JSON:API request body with a single resource.
// An empty id is omitted, matching create payloads for server-generated
// ids.
func ResourceBody(resourceType, id string, attributes map[string]any) *bytes.Reader {
	data := map[string]any{"type": resourceType}
	if id != "" {
		data["id"] = id
	}
	if attributes != nil {
		data["attributes"] = attributes
	}
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal resource body: %v", err))
	}
	return bytes.NewReader(body)
}

// ResourceBodyWithRelationships is ResourceBody plus a relationships
// block.
func ResourceBodyWithRelationships(resourceType, id string, attributes map[string]any, relationships map[string]any) *bytes.Reader {
	data := map[string]any{"type": resourceType}
	if id != "" {
		data["id"] = id
	}
	if attributes != nil {
		data["attributes"] = attributes
	}
	data["relationships"] = relationships
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal resource body: %v", err))
	}
	return bytes.NewReader(body)
}

// ToManyRelationship builds the relationships entry for a to-many
// reference list, for use with ResourceBodyWithRelationships.
func ToManyRelationship(resourceType string, ids ...string) map[string]any {
	data := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		data = append(data, map[string]any{"type": resourceType, "id": id})
	}
	return map[string]any{"data": data}
}

// IdentifierListBody builds a JSON:API request body whose data is a
// list of resource identifiers, as used by the relationship mutation
// endpoints.
func IdentifierListBody(resourceType string, ids ...string) *bytes.Reader {
	data := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		data = append(data, map[string]any{"type": resourceType, "id": id})
	}
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal identifier list: %v", err))
	}
	return bytes.NewReader(body)
}

// RecordedEvent is one Trigger call captured by RecordingBroadcaster.
type RecordedEvent struct {
	Name string
	Data any
}

// RecordingBroadcaster captures triggered events for assertions.
type RecordingBroadcaster struct {
	mu     sync.Mutex
	Events []RecordedEvent
}

// Trigger records the event.
func (b *RecordingBroadcaster) Trigger(name string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, RecordedEvent{Name: name, Data: data})
}

// Recorded returns a copy of the captured events.
func (b *RecordingBroadcaster) Recorded() []RecordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedEvent(nil), b.Events...)
}

// FakeIdentityLookup resolves external ids from a fixed table.
type FakeIdentityLookup struct {
	Emails map[string]string
	Err    error
}

// EmailForUser returns the configured email or the configured error.
func (f *FakeIdentityLookup) EmailForUser(ctx context.Context, externalID string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	email, ok := f.Emails[externalID]
	if !ok {
		return "", fmt.Errorf("no such user: %s", externalID)
	}
	return email, nil
}
