package sqlite

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/eavl-io/eavl/pkg/types"
)

// Value store internals. One row per (entity, attribute) pair, kept in the
// partition matching the attribute's declared value type. Splitting by type
// keeps payloads native and comparable; there is no serialized catch-all
// column.

// setValueRow upserts the single value row for (entity, attribute).
// The value must already be normalized via types.Normalize.
func setValueRow(ex execer, entityID string, def *types.AttributeDefinition, normalized any) error {
	p, err := partitionFor(def.ValueType)
	if err != nil {
		return err
	}
	encoded, err := encodeValue(def.ValueType, normalized)
	if err != nil {
		return err
	}
	_, err = ex.Exec(`
		INSERT INTO `+p.table+` (entity_id, attribute_id, value)
		VALUES (?, ?, ?)
		ON CONFLICT(entity_id, attribute_id) DO UPDATE SET
			value = excluded.value`,
		entityID, def.AttributeID, encoded)
	if err != nil {
		return fmt.Errorf("upserting %s value: %w", def.ValueType, err)
	}
	return nil
}

// getValueRow reads the value row for (entity, attribute). The second
// return is false when the row is absent; absence is not an error.
func getValueRow(ex execer, entityID string, def *types.AttributeDefinition) (any, bool, error) {
	p, err := partitionFor(def.ValueType)
	if err != nil {
		return nil, false, err
	}
	var raw any
	err = ex.QueryRow(
		"SELECT value FROM "+p.table+" WHERE entity_id = ? AND attribute_id = ?",
		entityID, def.AttributeID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scanning %s value: %w", def.ValueType, err)
	}
	decoded, err := decodeValue(def.ValueType, raw)
	if err != nil {
		return nil, false, err
	}
	return decoded, true, nil
}

// deleteValueRow removes the value row for (entity, attribute). Idempotent.
func deleteValueRow(ex execer, entityID string, def *types.AttributeDefinition) error {
	p, err := partitionFor(def.ValueType)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(
		"DELETE FROM "+p.table+" WHERE entity_id = ? AND attribute_id = ?",
		entityID, def.AttributeID); err != nil {
		return fmt.Errorf("deleting %s value: %w", def.ValueType, err)
	}
	return nil
}

// deleteEntityValues removes all value rows for one entity across every
// partition.
func deleteEntityValues(ex execer, entityID string) error {
	for _, p := range partitions {
		if _, err := ex.Exec(
			"DELETE FROM "+p.table+" WHERE entity_id = ?", entityID); err != nil {
			return fmt.Errorf("deleting %s values: %w", p.table, err)
		}
	}
	return nil
}

// queryer abstracts multi-row reads over *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// getAllValues assembles the full attribute bag for one entity by joining
// every partition against the attribute names. Attribute names are
// collected in sorted order so downstream serialization is deterministic.
func getAllValues(q queryer, entityID string) (map[string]any, error) {
	bag := make(map[string]any)
	for _, p := range partitions {
		rows, err := q.Query(`
			SELECT a.name, v.value
			FROM `+p.table+` v
			JOIN attributes a ON a.attribute_id = v.attribute_id
			WHERE v.entity_id = ?
			ORDER BY a.name`, entityID)
		if err != nil {
			return nil, fmt.Errorf("fetching %s values: %w", p.table, err)
		}
		for rows.Next() {
			var name string
			var raw any
			if err := rows.Scan(&name, &raw); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s value: %w", p.table, err)
			}
			decoded, err := decodeValue(p.valueType, raw)
			if err != nil {
				rows.Close()
				return nil, err
			}
			bag[name] = decoded
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return bag, nil
}

// sortedKeys returns map keys in ascending order. Mutation cascades walk
// attribute names in this order so write patterns are reproducible.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
