package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/eavl-io/eavl/pkg/types"
)

// Entity class catalog and attribute registry. The registry is the only
// quasi-global structure; Define is an atomic define-if-absent so
// concurrent first-writes of the same attribute name cannot race into
// duplicates.

// CreateClass registers a new entity class and returns its ID.
func (b *Backend) CreateClass(name, verboseName string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return "", err
	}
	if name == "" {
		return "", types.ErrInvalidName
	}

	var one int
	err := b.db.QueryRow("SELECT 1 FROM classes WHERE name = ?", name).Scan(&one)
	if err == nil {
		return "", types.ErrDuplicateClass
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking class name: %w", err)
	}

	classID := newUUID()
	now := time.Now().UTC()
	_, err = b.db.Exec(
		"INSERT INTO classes (class_id, name, verbose_name, created_at) VALUES (?, ?, ?, ?)",
		classID, name, verboseName, now.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("inserting class: %w", err)
	}

	if err := b.markDirtyLocked(classesFile); err != nil {
		return "", err
	}
	return classID, nil
}

// GetClass returns a class by ID. Returns ErrUnknownClass if absent.
func (b *Backend) GetClass(classID string) (*types.EntityClass, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	if classID == "" {
		return nil, types.ErrInvalidID
	}

	var c types.EntityClass
	var verbose sql.NullString
	var createdAt string
	err := b.db.QueryRow(
		"SELECT class_id, name, verbose_name, created_at FROM classes WHERE class_id = ?", classID).
		Scan(&c.ClassID, &c.Name, &verbose, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrUnknownClass
	}
	if err != nil {
		return nil, fmt.Errorf("scanning class: %w", err)
	}
	if verbose.Valid {
		c.VerboseName = verbose.String
	}
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing class created_at: %w", err)
	}
	return &c, nil
}

// ListClasses returns all classes ordered by name.
func (b *Backend) ListClasses() ([]*types.EntityClass, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT class_id, name, verbose_name, created_at FROM classes ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("fetching classes: %w", err)
	}
	defer rows.Close()

	classes := []*types.EntityClass{}
	for rows.Next() {
		var c types.EntityClass
		var verbose sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ClassID, &c.Name, &verbose, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning class: %w", err)
		}
		if verbose.Valid {
			c.VerboseName = verbose.String
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		classes = append(classes, &c)
	}
	return classes, rows.Err()
}

// DeleteClass removes a class and its attribute definitions. Refused with
// ErrClassInUse while entities of the class exist; the cascade to
// definitions is safe because no value row can reference them once the
// class has no entities.
func (b *Backend) DeleteClass(classID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	exists, err := b.classExistsLocked(classID)
	if err != nil {
		return err
	}
	if !exists {
		return types.ErrUnknownClass
	}

	var one int
	err = b.db.QueryRow("SELECT 1 FROM entities WHERE class_id = ? LIMIT 1", classID).Scan(&one)
	if err == nil {
		return types.ErrClassInUse
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking class entities: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM attributes WHERE class_id = ?", classID); err != nil {
		return fmt.Errorf("deleting class attributes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM classes WHERE class_id = ?", classID); err != nil {
		return fmt.Errorf("deleting class: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return b.markDirtyLocked(classesFile, attributesFile)
}

// DefineAttribute registers name with valueType for classID and returns the
// attribute ID. Idempotent on identical redefinition; redefining with a
// different value type fails with ErrDuplicateAttribute. Toggling required
// updates the flag without re-validating existing values.
func (b *Backend) DefineAttribute(classID, name, valueType string, required bool) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return "", err
	}
	id, err := b.defineAttributeLocked(b.db, classID, name, valueType, required)
	if err != nil {
		return "", err
	}
	if err := b.markDirtyLocked(attributesFile); err != nil {
		return "", err
	}
	return id, nil
}

// execer abstracts *sql.DB and *sql.Tx so schema-on-write can define
// attributes inside a SetData transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// defineAttributeLocked is the define-if-absent core shared by
// DefineAttribute and schema-on-write. The caller must hold b.mu write
// lock.
func (b *Backend) defineAttributeLocked(ex execer, classID, name, valueType string, required bool) (string, error) {
	if name == "" {
		return "", types.ErrInvalidName
	}
	if !types.IsValidValueType(valueType) {
		return "", types.ErrInvalidValueType
	}

	var one int
	err := ex.QueryRow("SELECT 1 FROM classes WHERE class_id = ?", classID).Scan(&one)
	if err == sql.ErrNoRows {
		return "", types.ErrUnknownClass
	}
	if err != nil {
		return "", fmt.Errorf("checking class: %w", err)
	}

	// Atomic define-if-absent: insert, then read whichever row won.
	now := time.Now().UTC()
	req := 0
	if required {
		req = 1
	}
	_, err = ex.Exec(`
		INSERT INTO attributes (attribute_id, class_id, name, value_type, required, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(class_id, name) DO NOTHING`,
		newUUID(), classID, name, valueType, req, now.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("inserting attribute: %w", err)
	}

	var attributeID, existingType string
	var existingReq int
	err = ex.QueryRow(
		"SELECT attribute_id, value_type, required FROM attributes WHERE class_id = ? AND name = ?",
		classID, name).Scan(&attributeID, &existingType, &existingReq)
	if err != nil {
		return "", fmt.Errorf("resolving attribute after define: %w", err)
	}

	if existingType != valueType {
		return "", types.ErrDuplicateAttribute
	}
	if (existingReq != 0) != required {
		if _, err := ex.Exec(
			"UPDATE attributes SET required = ? WHERE attribute_id = ?", req, attributeID); err != nil {
			return "", fmt.Errorf("updating attribute required flag: %w", err)
		}
	}
	return attributeID, nil
}

// ResolveAttribute returns the definition for name within classID.
// Returns ErrUnknownAttribute if absent.
func (b *Backend) ResolveAttribute(classID, name string) (*types.AttributeDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	return resolveAttribute(b.db, classID, name)
}

// resolveAttribute looks up one attribute definition by class and name.
func resolveAttribute(ex execer, classID, name string) (*types.AttributeDefinition, error) {
	var def types.AttributeDefinition
	var req int
	var createdAt string
	err := ex.QueryRow(
		"SELECT attribute_id, class_id, name, value_type, required, created_at FROM attributes WHERE class_id = ? AND name = ?",
		classID, name).
		Scan(&def.AttributeID, &def.ClassID, &def.Name, &def.ValueType, &req, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrUnknownAttribute
	}
	if err != nil {
		return nil, fmt.Errorf("scanning attribute: %w", err)
	}
	def.Required = req != 0
	def.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing attribute created_at: %w", err)
	}
	return &def, nil
}

// ListAttributes returns all definitions for classID ordered by creation
// time.
func (b *Backend) ListAttributes(classID string) ([]*types.AttributeDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	exists, err := b.classExistsLocked(classID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.ErrUnknownClass
	}

	rows, err := b.db.Query(
		"SELECT attribute_id, class_id, name, value_type, required, created_at FROM attributes WHERE class_id = ? ORDER BY created_at, attribute_id",
		classID)
	if err != nil {
		return nil, fmt.Errorf("fetching attributes: %w", err)
	}
	defer rows.Close()

	defs := []*types.AttributeDefinition{}
	for rows.Next() {
		var def types.AttributeDefinition
		var req int
		var createdAt string
		if err := rows.Scan(&def.AttributeID, &def.ClassID, &def.Name, &def.ValueType, &req, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		def.Required = req != 0
		def.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		defs = append(defs, &def)
	}
	return defs, rows.Err()
}

// RemoveAttribute deletes a definition. Refused with ErrAttributeInUse
// while any value row references it.
func (b *Backend) RemoveAttribute(attributeID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	if attributeID == "" {
		return types.ErrInvalidID
	}

	var one int
	err := b.db.QueryRow("SELECT 1 FROM attributes WHERE attribute_id = ?", attributeID).Scan(&one)
	if err == sql.ErrNoRows {
		return types.ErrUnknownAttribute
	}
	if err != nil {
		return fmt.Errorf("checking attribute: %w", err)
	}

	for _, p := range partitions {
		err := b.db.QueryRow(
			"SELECT 1 FROM "+p.table+" WHERE attribute_id = ? LIMIT 1", attributeID).Scan(&one)
		if err == nil {
			return types.ErrAttributeInUse
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking %s: %w", p.table, err)
		}
	}

	if _, err := b.db.Exec("DELETE FROM attributes WHERE attribute_id = ?", attributeID); err != nil {
		return fmt.Errorf("deleting attribute: %w", err)
	}
	return b.markDirtyLocked(attributesFile)
}

// DefineLinkType registers a link type name in the vocabulary. Idempotent.
func (b *Backend) DefineLinkType(name, description string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	if name == "" {
		return types.ErrInvalidName
	}

	now := time.Now().UTC()
	_, err := b.db.Exec(`
		INSERT INTO link_types (name, description, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET description = excluded.description`,
		name, description, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting link type: %w", err)
	}
	return b.markDirtyLocked(linkTypesFile)
}

// ListLinkTypes returns the registered vocabulary ordered by name.
func (b *Backend) ListLinkTypes() ([]*types.LinkType, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT name, description, created_at FROM link_types ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("fetching link types: %w", err)
	}
	defer rows.Close()

	lts := []*types.LinkType{}
	for rows.Next() {
		var lt types.LinkType
		var desc sql.NullString
		var createdAt string
		if err := rows.Scan(&lt.Name, &desc, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning link type: %w", err)
		}
		if desc.Valid {
			lt.Description = desc.String
		}
		lt.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		lts = append(lts, &lt)
	}
	return lts, rows.Err()
}
