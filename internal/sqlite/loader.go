// JSONL loading for Attach. The SQLite database is rebuilt from the mirror
// inside one transaction: all files load or the database stays empty.
// Malformed lines are skipped and unknown fields ignored.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/eavl-io/eavl/pkg/types"
)

// loadAllJSONL reads every mirror file from dataDir and inserts its records
// into the corresponding tables. Referenced tables load before referencing
// ones.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if err := loadClasses(tx, dataDir); err != nil {
		return err
	}
	if err := loadEntities(tx, dataDir); err != nil {
		return err
	}
	if err := loadAttributes(tx, dataDir); err != nil {
		return err
	}
	if err := loadLinkTypes(tx, dataDir); err != nil {
		return err
	}
	if err := loadLinks(tx, dataDir); err != nil {
		return err
	}
	for _, p := range partitions {
		if err := loadValues(tx, dataDir, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func loadClasses(tx *sql.Tx, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, classesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", classesFile, err)
	}
	for _, rec := range records {
		var c classJSON
		if err := json.Unmarshal(rec, &c); err != nil {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO classes (class_id, name, verbose_name, created_at) VALUES (?, ?, ?, ?)",
			c.ClassID, c.Name, c.VerboseName, c.CreatedAt); err != nil {
			return fmt.Errorf("loading class %s: %w", c.ClassID, err)
		}
	}
	return nil
}

func loadEntities(tx *sql.Tx, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, entitiesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", entitiesFile, err)
	}
	for _, rec := range records {
		var e entityJSON
		if err := json.Unmarshal(rec, &e); err != nil {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO entities (entity_id, class_id, created_at) VALUES (?, ?, ?)",
			e.EntityID, e.ClassID, e.CreatedAt); err != nil {
			return fmt.Errorf("loading entity %s: %w", e.EntityID, err)
		}
	}
	return nil
}

func loadAttributes(tx *sql.Tx, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, attributesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", attributesFile, err)
	}
	for _, rec := range records {
		var a attributeJSON
		if err := json.Unmarshal(rec, &a); err != nil {
			continue
		}
		req := 0
		if a.Required {
			req = 1
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO attributes (attribute_id, class_id, name, value_type, required, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			a.AttributeID, a.ClassID, a.Name, a.ValueType, req, a.CreatedAt); err != nil {
			return fmt.Errorf("loading attribute %s: %w", a.AttributeID, err)
		}
	}
	return nil
}

func loadLinkTypes(tx *sql.Tx, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, linkTypesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", linkTypesFile, err)
	}
	for _, rec := range records {
		var lt linkTypeJSON
		if err := json.Unmarshal(rec, &lt); err != nil {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO link_types (name, description, created_at) VALUES (?, ?, ?)",
			lt.Name, lt.Description, lt.CreatedAt); err != nil {
			return fmt.Errorf("loading link type %s: %w", lt.Name, err)
		}
	}
	return nil
}

func loadLinks(tx *sql.Tx, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, linksFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", linksFile, err)
	}
	for _, rec := range records {
		var l linkJSON
		if err := json.Unmarshal(rec, &l); err != nil {
			continue
		}
		var pos sql.NullInt64
		if l.Position != nil {
			pos = sql.NullInt64{Int64: int64(*l.Position), Valid: true}
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO links (link_id, link_type, from_id, to_id, position, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			l.LinkID, l.LinkType, l.FromID, l.ToID, pos, l.CreatedAt); err != nil {
			return fmt.Errorf("loading link %s: %w", l.LinkID, err)
		}
	}
	return nil
}

func loadValues(tx *sql.Tx, dataDir string, p partition) error {
	records, err := readJSONL(filepath.Join(dataDir, p.file))
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.file, err)
	}
	for _, rec := range records {
		var v valueJSON
		if err := json.Unmarshal(rec, &v); err != nil {
			continue
		}
		col, ok := columnFromJSON(p.valueType, v.Value)
		if !ok {
			// Payload type disagrees with its partition; skip the row.
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO "+p.table+" (entity_id, attribute_id, value) VALUES (?, ?, ?)",
			v.EntityID, v.AttributeID, col); err != nil {
			return fmt.Errorf("loading %s value for %s: %w", p.valueType, v.EntityID, err)
		}
	}
	return nil
}

// columnFromJSON converts a decoded JSON payload to the column
// representation for its partition. JSON numbers decode as float64.
func columnFromJSON(valueType string, value any) (any, bool) {
	switch valueType {
	case types.ValueTypeInteger:
		f, ok := value.(float64)
		if !ok {
			return nil, false
		}
		return int64(f), true
	case types.ValueTypeFloat:
		f, ok := value.(float64)
		return f, ok
	case types.ValueTypeText, types.ValueTypeTimestamp:
		s, ok := value.(string)
		return s, ok
	case types.ValueTypeBoolean:
		bv, ok := value.(bool)
		if !ok {
			return nil, false
		}
		if bv {
			return int64(1), true
		}
		return int64(0), true
	default:
		return nil, false
	}
}
