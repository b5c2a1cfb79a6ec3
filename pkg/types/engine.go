package types

import "context"

// Registry defines, resolves, and enumerates attribute definitions per
// class. Define is an atomic define-if-absent: redefining an attribute with
// the same value type is idempotent, with a different one fails with
// ErrDuplicateAttribute. Toggling Required never re-validates existing
// values.
type Registry interface {
	// DefineAttribute registers name with valueType for classID and
	// returns the attribute ID.
	DefineAttribute(classID, name, valueType string, required bool) (string, error)

	// ResolveAttribute returns the definition for name within classID.
	// Returns ErrUnknownAttribute if absent.
	ResolveAttribute(classID, name string) (*AttributeDefinition, error)

	// ListAttributes returns all definitions for classID ordered by
	// creation time.
	ListAttributes(classID string) ([]*AttributeDefinition, error)

	// RemoveAttribute deletes a definition. Returns ErrAttributeInUse
	// while any value row references it.
	RemoveAttribute(attributeID string) error
}

// Classes manages the entity class catalog.
type Classes interface {
	// CreateClass registers a new entity class and returns its ID.
	// Returns ErrDuplicateClass if name is taken.
	CreateClass(name, verboseName string) (string, error)

	// GetClass returns a class by ID. Returns ErrUnknownClass if absent.
	GetClass(classID string) (*EntityClass, error)

	// ListClasses returns all classes ordered by name.
	ListClasses() ([]*EntityClass, error)

	// DeleteClass removes a class and its attribute definitions.
	// Returns ErrClassInUse while entities of the class exist.
	DeleteClass(classID string) error
}

// Entities is the per-entity façade over the value store: attribute bags
// are read and written as plain maps keyed by attribute name.
type Entities interface {
	// CreateEntity creates an entity of classID and returns its ID.
	CreateEntity(classID string) (string, error)

	// GetEntity returns the entity row. Returns ErrUnknownEntity if absent.
	GetEntity(entityID string) (*Entity, error)

	// SetData writes the given attribute values in one transaction.
	// Undefined attribute names are defined on the fly with the value type
	// inferred from the Go value (schema-on-write). Returns ErrTypeMismatch
	// when a value disagrees with an existing definition.
	SetData(entityID string, data map[string]any) error

	// GetData assembles the full attribute bag for one entity, keyed by
	// attribute name. Unset attributes are simply absent from the map.
	GetData(entityID string) (map[string]any, error)

	// GetValue returns one attribute value. The second return is false
	// when the attribute is unset; absence is not an error.
	GetValue(entityID, attributeName string) (any, bool, error)

	// DeleteValue removes one attribute value. Idempotent.
	DeleteValue(entityID, attributeName string) error

	// DeleteEntity removes the entity with its values and links,
	// children before parent, in one transaction.
	DeleteEntity(entityID string) error
}

// Links manages typed directed edges between entities.
type Links interface {
	// Link creates a directed edge. Both endpoints must exist. A duplicate
	// (from, type, to) is idempotent unless position differs, in which
	// case the position updates.
	Link(fromID, linkType, toID string, position *int) error

	// Unlink removes one edge. Idempotent.
	Unlink(fromID, linkType, toID string) error

	// Targets returns target entity IDs for edges leaving fromID, ordered
	// by position (unordered edges last) then creation order.
	Targets(ctx context.Context, fromID, linkType string) ([]string, error)

	// Sources returns source entity IDs for edges arriving at toID, in
	// creation order.
	Sources(ctx context.Context, toID, linkType string) ([]string, error)

	// DefineLinkType registers a link type name in the vocabulary.
	DefineLinkType(name, description string) error

	// ListLinkTypes returns the registered vocabulary ordered by name.
	ListLinkTypes() ([]*LinkType, error)
}

// Queries answers composite searches and graph traversals.
type Queries interface {
	// Find returns IDs of classID entities matching all predicates in q,
	// ascending by entity ID unless q.SortBy names an attribute. Checks
	// ctx between partition scans.
	Find(ctx context.Context, classID string, q Query) ([]string, error)

	// HasDirectLink reports whether an edge fromID->toID exists, with
	// linkType restricting the edge type when non-empty.
	HasDirectLink(fromID, toID, linkType string) (bool, error)

	// IsConnected reports whether toID is reachable from fromID over
	// outgoing links within maxDepth edges (default 3 when zero).
	IsConnected(ctx context.Context, fromID, toID string, maxDepth int) (bool, error)

	// FindPath returns the shortest entity-ID path from fromID to toID,
	// including both endpoints, or an empty slice when no path exists
	// within the depth bound.
	FindPath(ctx context.Context, fromID, toID string, opts PathOptions) ([]string, error)
}

// Engine is the full EAVL storage surface. Callers attach to a backend,
// operate, and detach when done.
type Engine interface {
	// Attach connects the engine to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrDetached.
	Detach() error

	Classes
	Registry
	Entities
	Links
	Queries
}
