package sqlite

import (
	"fmt"
	"time"

	"github.com/eavl-io/eavl/pkg/types"
)

// partition describes one value-type table and its JSONL mirror file.
type partition struct {
	valueType string
	table     string
	file      string
}

// partitions lists all value partitions in stable order.
var partitions = []partition{
	{types.ValueTypeInteger, "values_integer", "values_integer.jsonl"},
	{types.ValueTypeFloat, "values_float", "values_float.jsonl"},
	{types.ValueTypeText, "values_text", "values_text.jsonl"},
	{types.ValueTypeBoolean, "values_boolean", "values_boolean.jsonl"},
	{types.ValueTypeTimestamp, "values_timestamp", "values_timestamp.jsonl"},
}

// partitionFor returns the partition holding values of the given type.
func partitionFor(valueType string) (partition, error) {
	for _, p := range partitions {
		if p.valueType == valueType {
			return p, nil
		}
	}
	return partition{}, types.ErrInvalidValueType
}

// encodeValue converts a normalized Go value (types.Normalize output) into
// the column representation for its partition: booleans become 0/1,
// timestamps become RFC3339 strings, the rest pass through.
func encodeValue(valueType string, value any) (any, error) {
	switch valueType {
	case types.ValueTypeInteger, types.ValueTypeFloat, types.ValueTypeText:
		return value, nil
	case types.ValueTypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, types.ErrTypeMismatch
		}
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	case types.ValueTypeTimestamp:
		ts, ok := value.(time.Time)
		if !ok {
			return nil, types.ErrTypeMismatch
		}
		return ts.UTC().Format(time.RFC3339), nil
	default:
		return nil, types.ErrInvalidValueType
	}
}

// decodeValue converts a scanned column value back to the canonical Go
// representation returned to callers.
func decodeValue(valueType string, raw any) (any, error) {
	switch valueType {
	case types.ValueTypeInteger:
		n, ok := raw.(int64)
		if !ok {
			return nil, fmt.Errorf("decoding integer value: unexpected %T", raw)
		}
		return n, nil
	case types.ValueTypeFloat:
		f, ok := raw.(float64)
		if !ok {
			// SQLite may hand back whole REALs as int64.
			if n, isInt := raw.(int64); isInt {
				return float64(n), nil
			}
			return nil, fmt.Errorf("decoding float value: unexpected %T", raw)
		}
		return f, nil
	case types.ValueTypeText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("decoding text value: unexpected %T", raw)
		}
		return s, nil
	case types.ValueTypeBoolean:
		n, ok := raw.(int64)
		if !ok {
			return nil, fmt.Errorf("decoding boolean value: unexpected %T", raw)
		}
		return n != 0, nil
	case types.ValueTypeTimestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("decoding timestamp value: unexpected %T", raw)
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp value: %w", err)
		}
		return ts, nil
	default:
		return nil, types.ErrInvalidValueType
	}
}
