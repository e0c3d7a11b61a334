// Package relationships composes JSON:API compound documents: it builds
// relationships blocks from references and collects the included section
// with (type, id) de-duplication in first-seen traversal order.
//
// The package is pure: callers fetch entities, serialize them to resource
// objects, and drive the traversal in primary-list order. Expansion is
// bounded at one extra hop (e.g. a user pulls in its team, which pulls in
// the team's other members); nothing here recurses.
package relationships

import "github.com/hack24/api/internal/app/system/jsonapi"

// Ref identifies a related resource by (type, id).
type Ref struct {
	Type string
	ID   string
}

// ToOne builds a to-one relationship block. A nil ref serializes as an
// explicit null data member, never an omitted one.
func ToOne(selfLink string, ref *Ref) jsonapi.Relationship {
	rel := jsonapi.Relationship{
		Links: &jsonapi.SelfLink{Self: selfLink},
		Data:  nil,
	}
	if ref != nil {
		rel.Data = jsonapi.ResourceIdentifier{Type: ref.Type, ID: ref.ID}
	}
	return rel
}

// ToMany builds a to-many relationship block. An empty ref list
// serializes as [], never null.
func ToMany(selfLink string, refs []Ref) jsonapi.Relationship {
	data := make([]jsonapi.ResourceIdentifier, 0, len(refs))
	for _, ref := range refs {
		data = append(data, jsonapi.ResourceIdentifier{Type: ref.Type, ID: ref.ID})
	}
	return jsonapi.Relationship{
		Links: &jsonapi.SelfLink{Self: selfLink},
		Data:  data,
	}
}

// Includer accumulates the included section of a compound document.
// Resources are kept in the order first added; adding a (type, id) pair
// a second time is a no-op, so an entity referenced by several primary
// resources appears exactly once.
type Includer struct {
	seen      map[Ref]bool
	resources []jsonapi.ResourceObject
}

// NewIncluder returns an empty Includer.
func NewIncluder() *Includer {
	return &Includer{seen: map[Ref]bool{}}
}

// Add records a resource object for inclusion unless an object with the
// same (type, id) was already added.
func (inc *Includer) Add(obj jsonapi.ResourceObject) {
	key := Ref{Type: obj.Type, ID: obj.ID}
	if inc.seen[key] {
		return
	}
	inc.seen[key] = true
	inc.resources = append(inc.resources, obj)
}

// Has reports whether a (type, id) pair was already added.
func (inc *Includer) Has(resourceType, id string) bool {
	return inc.seen[Ref{Type: resourceType, ID: id}]
}

// Resources returns the accumulated included array in first-seen order.
// It returns nil when nothing was added so the included member is
// omitted from documents without references.
func (inc *Includer) Resources() []jsonapi.ResourceObject {
	return inc.resources
}
