package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eavl-io/eavl/pkg/types"
)

// Entity façade. Attribute bags are read and written as plain maps;
// mutation cascades for one entity run inside a single transaction so
// readers never observe a partially written entity.

// CreateEntity creates an entity of classID and returns its ID.
func (b *Backend) CreateEntity(classID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return "", err
	}
	exists, err := b.classExistsLocked(classID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", types.ErrUnknownClass
	}

	entityID := newUUID()
	now := time.Now().UTC()
	_, err = b.db.Exec(
		"INSERT INTO entities (entity_id, class_id, created_at) VALUES (?, ?, ?)",
		entityID, classID, now.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("inserting entity: %w", err)
	}

	if err := b.markDirtyLocked(entitiesFile); err != nil {
		return "", err
	}
	return entityID, nil
}

// GetEntity returns the entity row. Returns ErrUnknownEntity if absent.
func (b *Backend) GetEntity(entityID string) (*types.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	if entityID == "" {
		return nil, types.ErrInvalidID
	}

	var e types.Entity
	var createdAt string
	err := b.db.QueryRow(
		"SELECT entity_id, class_id, created_at FROM entities WHERE entity_id = ?", entityID).
		Scan(&e.EntityID, &e.ClassID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrUnknownEntity
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing entity created_at: %w", err)
	}
	return &e, nil
}

// SetData writes the given attribute values in one transaction. Undefined
// attribute names are defined on the fly with the value type inferred from
// the Go value (schema-on-write). No partial state survives a failure.
func (b *Backend) SetData(entityID string, data map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	if entityID == "" {
		return types.ErrInvalidID
	}

	var classID string
	err := b.db.QueryRow(
		"SELECT class_id FROM entities WHERE entity_id = ?", entityID).Scan(&classID)
	if err == sql.ErrNoRows {
		return types.ErrUnknownEntity
	}
	if err != nil {
		return fmt.Errorf("checking entity: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning set transaction: %w", err)
	}
	defer tx.Rollback()

	dirty := map[string]bool{}
	for _, name := range sortedKeys(data) {
		value := data[name]
		def, err := resolveAttribute(tx, classID, name)
		if errors.Is(err, types.ErrUnknownAttribute) {
			// Schema-on-write: first use of this name defines it.
			valueType, inferErr := types.InferValueType(value)
			if inferErr != nil {
				return fmt.Errorf("attribute %q: %w", name, inferErr)
			}
			if _, defErr := b.defineAttributeLocked(tx, classID, name, valueType, false); defErr != nil {
				return fmt.Errorf("attribute %q: %w", name, defErr)
			}
			dirty[attributesFile] = true
			def, err = resolveAttribute(tx, classID, name)
		}
		if err != nil {
			return err
		}

		normalized, err := types.Normalize(def.ValueType, value)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		if err := setValueRow(tx, entityID, def, normalized); err != nil {
			return err
		}
		p, _ := partitionFor(def.ValueType)
		dirty[p.file] = true
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing set transaction: %w", err)
	}

	files := make([]string, 0, len(dirty))
	for f := range dirty {
		files = append(files, f)
	}
	return b.markDirtyLocked(files...)
}

// GetData assembles the full attribute bag for one entity, keyed by
// attribute name. Unset attributes are absent from the map.
func (b *Backend) GetData(entityID string) (map[string]any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	exists, err := b.entityExistsLocked(entityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.ErrUnknownEntity
	}
	return getAllValues(b.db, entityID)
}

// GetValue returns one attribute value. The second return is false when the
// attribute is unset; absence is a first-class result, not an error.
func (b *Backend) GetValue(entityID, attributeName string) (any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, false, err
	}

	var classID string
	err := b.db.QueryRow(
		"SELECT class_id FROM entities WHERE entity_id = ?", entityID).Scan(&classID)
	if err == sql.ErrNoRows {
		return nil, false, types.ErrUnknownEntity
	}
	if err != nil {
		return nil, false, fmt.Errorf("checking entity: %w", err)
	}

	def, err := resolveAttribute(b.db, classID, attributeName)
	if err != nil {
		return nil, false, err
	}
	return getValueRow(b.db, entityID, def)
}

// DeleteValue removes one attribute value. Idempotent: deleting an unset
// value, or a name never defined for the class, succeeds.
func (b *Backend) DeleteValue(entityID, attributeName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}

	var classID string
	err := b.db.QueryRow(
		"SELECT class_id FROM entities WHERE entity_id = ?", entityID).Scan(&classID)
	if err == sql.ErrNoRows {
		return types.ErrUnknownEntity
	}
	if err != nil {
		return fmt.Errorf("checking entity: %w", err)
	}

	def, err := resolveAttribute(b.db, classID, attributeName)
	if errors.Is(err, types.ErrUnknownAttribute) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := deleteValueRow(b.db, entityID, def); err != nil {
		return err
	}
	p, _ := partitionFor(def.ValueType)
	return b.markDirtyLocked(p.file)
}

// DeleteEntity removes the entity with its values and links, children
// before parent, in one transaction.
func (b *Backend) DeleteEntity(entityID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	exists, err := b.entityExistsLocked(entityID)
	if err != nil {
		return err
	}
	if !exists {
		return types.ErrUnknownEntity
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteEntityValues(tx, entityID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"DELETE FROM links WHERE from_id = ? OR to_id = ?", entityID, entityID); err != nil {
		return fmt.Errorf("deleting entity links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entities WHERE entity_id = ?", entityID); err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	files := []string{entitiesFile, linksFile}
	for _, p := range partitions {
		files = append(files, p.file)
	}
	return b.markDirtyLocked(files...)
}
