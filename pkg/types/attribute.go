package types

import (
	"math"
	"time"
)

// Attribute value types determine what payloads a value row accepts.
const (
	ValueTypeInteger   = "integer"
	ValueTypeFloat     = "float"
	ValueTypeText      = "text"
	ValueTypeBoolean   = "boolean"
	ValueTypeTimestamp = "timestamp"
)

// validValueTypes is the set of recognized attribute value types.
var validValueTypes = map[string]bool{
	ValueTypeInteger:   true,
	ValueTypeFloat:     true,
	ValueTypeText:      true,
	ValueTypeBoolean:   true,
	ValueTypeTimestamp: true,
}

// AttributeDefinition declares a named, typed attribute available to
// entities of one class. Names are unique within a class. Definitions are
// created explicitly via Registry.Define or implicitly on first write.
type AttributeDefinition struct {
	AttributeID string    `json:"attribute_id"` // UUID v7, generated on creation.
	ClassID     string    `json:"class_id"`
	Name        string    `json:"name"`
	ValueType   string    `json:"value_type"` // One of the ValueType constants.
	Required    bool      `json:"required"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsValidValueType reports whether the given string is a recognized value type.
func IsValidValueType(vt string) bool {
	return validValueTypes[vt]
}

// ValueTypes lists all recognized value types in stable order.
var ValueTypes = []string{
	ValueTypeInteger,
	ValueTypeFloat,
	ValueTypeText,
	ValueTypeBoolean,
	ValueTypeTimestamp,
}

// InferValueType maps a Go runtime value to its attribute value type.
// Used by schema-on-write to define attributes from the first value seen.
// Returns ErrInvalidValueType for unsupported Go types.
func InferValueType(value any) (string, error) {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ValueTypeInteger, nil
	case float32, float64:
		return ValueTypeFloat, nil
	case string:
		return ValueTypeText, nil
	case bool:
		return ValueTypeBoolean, nil
	case time.Time:
		return ValueTypeTimestamp, nil
	default:
		return "", ErrInvalidValueType
	}
}

// Normalize converts value to the canonical Go representation for the given
// value type: int64, float64, string, bool, or time.Time. Returns
// ErrTypeMismatch when the runtime type disagrees with valueType, and
// ErrInvalidValueType for an unrecognized valueType.
//
// Integers widen to int64 and are also accepted for float attributes (5 is a
// valid float payload); the reverse is not true, a float payload on an
// integer attribute is a mismatch.
func Normalize(valueType string, value any) (any, error) {
	switch valueType {
	case ValueTypeInteger:
		if n, ok := toInt64(value); ok {
			return n, nil
		}
	case ValueTypeFloat:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		}
		if n, ok := toInt64(value); ok {
			return float64(n), nil
		}
	case ValueTypeText:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case ValueTypeBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case ValueTypeTimestamp:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, ErrTypeMismatch
			}
			return ts, nil
		}
	default:
		return nil, ErrInvalidValueType
	}
	return nil, ErrTypeMismatch
}

// toInt64 widens any Go integer type to int64. Unsigned values above
// math.MaxInt64 do not fit and are rejected rather than wrapped.
func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
