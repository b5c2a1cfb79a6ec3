// JSONL persistence. Each function reads all rows of one table from SQLite
// and rewrites the corresponding mirror file atomically.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/eavl-io/eavl/pkg/types"
)

// persistFileLocked rewrites one JSONL mirror file from the database.
// The caller must hold b.mu write lock.
func (b *Backend) persistFileLocked(file string) error {
	switch file {
	case classesFile:
		return b.persistClassesLocked()
	case entitiesFile:
		return b.persistEntitiesLocked()
	case attributesFile:
		return b.persistAttributesLocked()
	case linkTypesFile:
		return b.persistLinkTypesLocked()
	case linksFile:
		return b.persistLinksLocked()
	}
	for _, p := range partitions {
		if p.file == file {
			return b.persistValuesLocked(p)
		}
	}
	return fmt.Errorf("no persister for %s", file)
}

func (b *Backend) persistClassesLocked() error {
	rows, err := b.db.Query(
		"SELECT class_id, name, verbose_name, created_at FROM classes ORDER BY created_at, class_id")
	if err != nil {
		return fmt.Errorf("reading classes for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var c classJSON
		var verbose sql.NullString
		if err := rows.Scan(&c.ClassID, &c.Name, &verbose, &c.CreatedAt); err != nil {
			return fmt.Errorf("scanning class for JSONL: %w", err)
		}
		if verbose.Valid {
			c.VerboseName = verbose.String
		}
		rec, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling class: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, classesFile), records)
}

func (b *Backend) persistEntitiesLocked() error {
	rows, err := b.db.Query(
		"SELECT entity_id, class_id, created_at FROM entities ORDER BY created_at, entity_id")
	if err != nil {
		return fmt.Errorf("reading entities for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var e entityJSON
		if err := rows.Scan(&e.EntityID, &e.ClassID, &e.CreatedAt); err != nil {
			return fmt.Errorf("scanning entity for JSONL: %w", err)
		}
		rec, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling entity: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, entitiesFile), records)
}

func (b *Backend) persistAttributesLocked() error {
	rows, err := b.db.Query(
		"SELECT attribute_id, class_id, name, value_type, required, created_at FROM attributes ORDER BY created_at, attribute_id")
	if err != nil {
		return fmt.Errorf("reading attributes for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var a attributeJSON
		var req int
		if err := rows.Scan(&a.AttributeID, &a.ClassID, &a.Name, &a.ValueType, &req, &a.CreatedAt); err != nil {
			return fmt.Errorf("scanning attribute for JSONL: %w", err)
		}
		a.Required = req != 0
		rec, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshaling attribute: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, attributesFile), records)
}

func (b *Backend) persistLinkTypesLocked() error {
	rows, err := b.db.Query(
		"SELECT name, description, created_at FROM link_types ORDER BY name")
	if err != nil {
		return fmt.Errorf("reading link types for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var lt linkTypeJSON
		var desc sql.NullString
		if err := rows.Scan(&lt.Name, &desc, &lt.CreatedAt); err != nil {
			return fmt.Errorf("scanning link type for JSONL: %w", err)
		}
		if desc.Valid {
			lt.Description = desc.String
		}
		rec, err := json.Marshal(lt)
		if err != nil {
			return fmt.Errorf("marshaling link type: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, linkTypesFile), records)
}

func (b *Backend) persistLinksLocked() error {
	rows, err := b.db.Query(
		"SELECT link_id, link_type, from_id, to_id, position, created_at FROM links ORDER BY created_at, link_id")
	if err != nil {
		return fmt.Errorf("reading links for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var l linkJSON
		var pos sql.NullInt64
		if err := rows.Scan(&l.LinkID, &l.LinkType, &l.FromID, &l.ToID, &pos, &l.CreatedAt); err != nil {
			return fmt.Errorf("scanning link for JSONL: %w", err)
		}
		if pos.Valid {
			p := int(pos.Int64)
			l.Position = &p
		}
		rec, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("marshaling link: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, linksFile), records)
}

func (b *Backend) persistValuesLocked(p partition) error {
	rows, err := b.db.Query(
		"SELECT entity_id, attribute_id, value FROM " + p.table + " ORDER BY entity_id, attribute_id")
	if err != nil {
		return fmt.Errorf("reading %s for JSONL: %w", p.table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var v valueJSON
		var raw any
		if err := rows.Scan(&v.EntityID, &v.AttributeID, &raw); err != nil {
			return fmt.Errorf("scanning %s for JSONL: %w", p.table, err)
		}
		v.Value = columnToJSON(p.valueType, raw)
		rec, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling %s value: %w", p.valueType, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, p.file), records)
}

// columnToJSON converts a scanned column value to its JSONL payload:
// booleans back to true/false, everything else as stored.
func columnToJSON(valueType string, raw any) any {
	if valueType == types.ValueTypeBoolean {
		if n, ok := raw.(int64); ok {
			return n != 0
		}
	}
	return raw
}
