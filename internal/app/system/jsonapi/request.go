// internal/app/system/jsonapi/request.go
package jsonapi

import (
	"encoding/json"
	"io"
)

// RequestRelationship is a relationship entry of an incoming resource.
// Data is kept raw because its shape depends on cardinality.
type RequestRelationship struct {
	Data json.RawMessage `json:"data"`
}

// RequestResource is the data member of an incoming request document.
// Attributes stays raw so each handler can unmarshal into its own typed
// attributes struct and report missing or mistyped fields precisely.
type RequestResource struct {
	Type          string                         `json:"type"`
	ID            string                         `json:"id"`
	Attributes    json.RawMessage                `json:"attributes"`
	Relationships map[string]RequestRelationship `json:"relationships"`
}

// RequestDocument is the envelope of an incoming POST/PATCH body.
type RequestDocument struct {
	Data *RequestResource `json:"data"`
}

// DecodeRequest parses an incoming request body and checks the envelope:
// data must be present and data.type must equal wantType. Anything else
// is a validation failure and returns ok=false.
func DecodeRequest(body io.Reader, wantType string) (*RequestResource, bool) {
	var doc RequestDocument
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, false
	}
	if doc.Data == nil || doc.Data.Type != wantType {
		return nil, false
	}
	return doc.Data, true
}

// IdentifierListDocument is the envelope of a relationship mutation body,
// e.g. POST /teams/:id/members.
type IdentifierListDocument struct {
	Data []ResourceIdentifier `json:"data"`
}

// DecodeIdentifierList parses a relationship mutation body and validates
// every entry has the wanted type and a non-empty id.
func DecodeIdentifierList(body io.Reader, wantType string) ([]ResourceIdentifier, bool) {
	var doc struct {
		Data *json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, false
	}
	if doc.Data == nil {
		return nil, false
	}
	var refs []ResourceIdentifier
	if err := json.Unmarshal(*doc.Data, &refs); err != nil {
		return nil, false
	}
	for _, ref := range refs {
		if ref.Type != wantType || ref.ID == "" {
			return nil, false
		}
	}
	return refs, true
}
