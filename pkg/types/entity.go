package types

import "time"

// EntityClass is a named category of entities (for example "Car"). A class
// owns its attribute definitions; entities reference the class by ID.
type EntityClass struct {
	ClassID     string    `json:"class_id"`     // UUID v7, generated on creation.
	Name        string    `json:"name"`         // Unique machine name (required, non-empty).
	VerboseName string    `json:"verbose_name"` // Optional display name.
	CreatedAt   time.Time `json:"created_at"`
}

// Entity is a uniquely identified record of one EntityClass. Attribute
// values and links live in their own stores; the entity row itself never
// changes shape.
type Entity struct {
	EntityID  string    `json:"entity_id"` // UUID v7, generated on creation.
	ClassID   string    `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
}
