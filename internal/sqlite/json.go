// JSONL record structures mirroring the data files. Unknown fields in a
// record are ignored on load, so older engines tolerate files written by
// newer ones.
package sqlite

// classJSON represents an entity class in classes.jsonl.
type classJSON struct {
	ClassID     string `json:"class_id"`
	Name        string `json:"name"`
	VerboseName string `json:"verbose_name,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// entityJSON represents an entity in entities.jsonl.
type entityJSON struct {
	EntityID  string `json:"entity_id"`
	ClassID   string `json:"class_id"`
	CreatedAt string `json:"created_at"`
}

// attributeJSON represents an attribute definition in attributes.jsonl.
type attributeJSON struct {
	AttributeID string `json:"attribute_id"`
	ClassID     string `json:"class_id"`
	Name        string `json:"name"`
	ValueType   string `json:"value_type"`
	Required    bool   `json:"required"`
	CreatedAt   string `json:"created_at"`
}

// linkTypeJSON represents a vocabulary entry in link_types.jsonl.
type linkTypeJSON struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// linkJSON represents a link in links.jsonl.
type linkJSON struct {
	LinkID    string `json:"link_id"`
	LinkType  string `json:"link_type"`
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Position  *int   `json:"position,omitempty"`
	CreatedAt string `json:"created_at"`
}

// valueJSON represents one value row in a values_<type>.jsonl partition
// file. The payload type follows the partition: integers and floats are
// JSON numbers, booleans JSON booleans, text and timestamps JSON strings.
type valueJSON struct {
	EntityID    string `json:"entity_id"`
	AttributeID string `json:"attribute_id"`
	Value       any    `json:"value"`
}
