package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eavl-io/eavl/pkg/types"
)

// Link store. Edges are directed and typed; the (link_type, from_id, to_id)
// triple is unique. Multiplicity is a caller policy, the store never
// enforces cardinality.

// Link creates a directed edge. Both endpoints must exist. A duplicate
// triple is idempotent; when position differs, the position updates in
// place. Under Config.StrictLinkTypes the type must be registered.
func (b *Backend) Link(fromID, linkType, toID string, position *int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	if linkType == "" {
		return types.ErrInvalidName
	}

	for _, id := range []string{fromID, toID} {
		exists, err := b.entityExistsLocked(id)
		if err != nil {
			return err
		}
		if !exists {
			return types.ErrUnknownEntity
		}
	}

	if b.config.StrictLinkTypes {
		var one int
		err := b.db.QueryRow("SELECT 1 FROM link_types WHERE name = ?", linkType).Scan(&one)
		if err == sql.ErrNoRows {
			return types.ErrUnknownLinkType
		}
		if err != nil {
			return fmt.Errorf("checking link type: %w", err)
		}
	}

	var pos sql.NullInt64
	if position != nil {
		pos = sql.NullInt64{Int64: int64(*position), Valid: true}
	}
	now := time.Now().UTC()
	// A nil position leaves an existing position untouched; only an explicit
	// position overwrites it.
	_, err := b.db.Exec(`
		INSERT INTO links (link_id, link_type, from_id, to_id, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(link_type, from_id, to_id) DO UPDATE SET
			position = excluded.position
		WHERE excluded.position IS NOT NULL`,
		newUUID(), linkType, fromID, toID, pos, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting link: %w", err)
	}
	return b.markDirtyLocked(linksFile)
}

// Unlink removes one edge. Idempotent: removing a missing edge succeeds.
func (b *Backend) Unlink(fromID, linkType, toID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttachedLocked(); err != nil {
		return err
	}
	if _, err := b.db.Exec(
		"DELETE FROM links WHERE link_type = ? AND from_id = ? AND to_id = ?",
		linkType, fromID, toID); err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	return b.markDirtyLocked(linksFile)
}

// Targets returns target entity IDs for edges leaving fromID, ordered by
// position (unordered edges last) then creation order.
func (b *Backend) Targets(ctx context.Context, fromID, linkType string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx, `
		SELECT to_id FROM links
		WHERE link_type = ? AND from_id = ?
		ORDER BY position IS NULL, position, created_at, link_id`,
		linkType, fromID)
	if err != nil {
		return nil, fmt.Errorf("fetching targets: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// Sources returns source entity IDs for edges arriving at toID, in
// creation order.
func (b *Backend) Sources(ctx context.Context, toID, linkType string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx, `
		SELECT from_id FROM links
		WHERE link_type = ? AND to_id = ?
		ORDER BY created_at, link_id`,
		linkType, toID)
	if err != nil {
		return nil, fmt.Errorf("fetching sources: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// scanIDs collects a single-column result set of entity IDs.
func scanIDs(rows *sql.Rows) ([]string, error) {
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning entity ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
