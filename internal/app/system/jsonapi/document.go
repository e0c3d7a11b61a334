// Package jsonapi holds the JSON:API document types and HTTP helpers the
// resource handlers share: resource objects, top-level documents, error
// documents, request-envelope decoding, and the fixed media type.
package jsonapi

// MediaType is the content type for every JSON body this API serves.
const MediaType = "application/vnd.api+json; charset=utf-8"

// SelfLink is the links object carried by resource objects and
// relationship blocks.
type SelfLink struct {
	Self string `json:"self"`
}

// Link is an href-style link object, used by the root document.
type Link struct {
	Href string `json:"href"`
}

// ResourceIdentifier references a resource by (type, id).
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is one entry of a resource object's relationships block.
// Data is either a ResourceIdentifier, a []ResourceIdentifier, or nil;
// it always serializes (null for an absent to-one reference, [] for an
// empty to-many list).
type Relationship struct {
	Links *SelfLink `json:"links,omitempty"`
	Data  any       `json:"data"`
}

// ResourceObject is a single {type, id, attributes, relationships, links}
// unit. Attributes is a per-resource struct whose optional fields are
// pointers without omitempty so absent values serialize as explicit null.
type ResourceObject struct {
	Links         *SelfLink               `json:"links,omitempty"`
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    any                     `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// VersionInfo is the jsonapi member of the root document.
type VersionInfo struct {
	Version string `json:"version"`
}

// TopLevelDocument is the response envelope. Data holds a ResourceObject,
// a []ResourceObject, or a relationship reference list depending on the
// endpoint; Links is a SelfLink for resource documents and a richer
// object for the root document.
type TopLevelDocument struct {
	JSONAPI  *VersionInfo     `json:"jsonapi,omitempty"`
	Links    any              `json:"links,omitempty"`
	Data     any              `json:"data,omitempty"`
	Included []ResourceObject `json:"included,omitempty"`
	Errors   []ErrorObject    `json:"errors,omitempty"`
}

// ErrorObject is a single JSON:API error. ID is set on 500s so a client
// report can be matched to the server log line.
type ErrorObject struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}
