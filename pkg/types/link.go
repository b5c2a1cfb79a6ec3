package types

import "time"

// Link represents a typed, directed edge between two entities. The triple
// (from_id, link_type, to_id) is unique; re-linking the same triple is a
// no-op unless the position differs, in which case the position updates.
type Link struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string `json:"link_id"`

	// LinkType is the relationship name. Free-form by default; validated
	// against the registered vocabulary when Config.StrictLinkTypes is set.
	LinkType string `json:"link_type"`

	// FromID is the source entity ID.
	FromID string `json:"from_id"`

	// ToID is the target entity ID.
	ToID string `json:"to_id"`

	// Position orders edges of one (from_id, link_type) group. Nil means
	// unordered; unordered edges sort after positioned ones, by creation.
	Position *int `json:"position,omitempty"`

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time `json:"created_at"`
}

// LinkType is a registered relationship name. The vocabulary is advisory
// unless Config.StrictLinkTypes is set.
type LinkType struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PathOptions bounds graph traversal in Engine.FindPath and IsConnected.
type PathOptions struct {
	// AllowedLinkTypes restricts traversal to these link types.
	// Empty means any type.
	AllowedLinkTypes []string

	// MaxDepth is the maximum path length in edges. Zero means the
	// default of 5.
	MaxDepth int
}

// DefaultMaxPathDepth bounds FindPath when PathOptions.MaxDepth is zero.
const DefaultMaxPathDepth = 5

// DefaultConnectDepth bounds IsConnected when maxDepth is zero.
const DefaultConnectDepth = 3
