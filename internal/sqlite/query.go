package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/eavl-io/eavl/pkg/types"
)

// Query engine. Attribute predicates resolve to their value partition and
// the matching entity-ID sets are intersected (AND semantics); link
// predicates filter last. There is no flat table holding all entity data,
// so every composite query is assembled from partition scans.

// Find returns IDs of classID entities matching all predicates in q,
// ascending by entity ID unless q.SortBy names an attribute. The context
// is checked between partition scans so long intersections can be
// cancelled.
func (b *Backend) Find(ctx context.Context, classID string, q types.Query) ([]string, error) {
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

	var candidates map[string]bool
	for _, pred := range q.Where {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matched, err := b.scanPredicateLocked(ctx, classID, pred)
		if err != nil {
			return nil, err
		}
		candidates = intersect(candidates, matched)
		if candidates != nil && len(candidates) == 0 {
			return []string{}, nil
		}
	}

	if candidates == nil {
		// No attribute predicates: start from every entity of the class.
		candidates, err = b.classEntitiesLocked(ctx, classID)
		if err != nil {
			return nil, err
		}
	}

	for _, lp := range q.Linked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matched, err := b.scanLinkPredicateLocked(ctx, lp)
		if err != nil {
			return nil, err
		}
		candidates = intersect(candidates, matched)
		if len(candidates) == 0 {
			return []string{}, nil
		}
	}

	ids, err := b.orderResultsLocked(ctx, classID, candidates, q.SortBy)
	if err != nil {
		return nil, err
	}
	return paginate(ids, q.Limit, q.Offset), nil
}

// scanPredicateLocked evaluates one attribute predicate against its value
// partition and returns the matching entity-ID set.
func (b *Backend) scanPredicateLocked(ctx context.Context, classID string, pred types.Predicate) (map[string]bool, error) {
	if !types.IsValidOp(pred.Op) {
		return nil, types.ErrInvalidOp
	}
	def, err := resolveAttribute(b.db, classID, pred.Attribute)
	if err != nil {
		return nil, err
	}
	p, err := partitionFor(def.ValueType)
	if err != nil {
		return nil, err
	}

	var cond string
	var arg any
	if pred.Op == types.OpContains {
		if def.ValueType != types.ValueTypeText {
			return nil, fmt.Errorf("attribute %q: contains on %s: %w",
				pred.Attribute, def.ValueType, types.ErrTypeMismatch)
		}
		sub, ok := pred.Value.(string)
		if !ok {
			return nil, fmt.Errorf("attribute %q: %w", pred.Attribute, types.ErrTypeMismatch)
		}
		// instr matches the substring literally and case-sensitively;
		// LIKE would fold ASCII case and expand % and _ as wildcards.
		cond = "instr(v.value, ?) > 0"
		arg = sub
	} else {
		normalized, err := types.Normalize(def.ValueType, pred.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", pred.Attribute, err)
		}
		encoded, err := encodeValue(def.ValueType, normalized)
		if err != nil {
			return nil, err
		}
		cond = "v.value " + sqlOp(pred.Op) + " ?"
		arg = encoded
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT v.entity_id FROM `+p.table+` v
		WHERE v.attribute_id = ? AND `+cond,
		def.AttributeID, arg)
	if err != nil {
		return nil, fmt.Errorf("scanning %s partition: %w", p.table, err)
	}
	defer rows.Close()
	return scanIDSet(rows)
}

// scanLinkPredicateLocked returns entity IDs satisfying one link predicate.
func (b *Backend) scanLinkPredicateLocked(ctx context.Context, lp types.LinkPredicate) (map[string]bool, error) {
	var query string
	var args []any
	switch {
	case lp.ToID != "":
		query = "SELECT from_id FROM links WHERE link_type = ? AND to_id = ?"
		args = []any{lp.LinkType, lp.ToID}
	case lp.FromID != "":
		query = "SELECT to_id FROM links WHERE link_type = ? AND from_id = ?"
		args = []any{lp.LinkType, lp.FromID}
	default:
		return nil, types.ErrInvalidID
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scanning links: %w", err)
	}
	defer rows.Close()
	return scanIDSet(rows)
}

// classEntitiesLocked returns the IDs of all entities of one class.
func (b *Backend) classEntitiesLocked(ctx context.Context, classID string) (map[string]bool, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT entity_id FROM entities WHERE class_id = ?", classID)
	if err != nil {
		return nil, fmt.Errorf("fetching class entities: %w", err)
	}
	defer rows.Close()
	return scanIDSet(rows)
}

// orderResultsLocked orders the candidate set: ascending entity ID by
// default, or by the named sort attribute with unset entities last.
func (b *Backend) orderResultsLocked(ctx context.Context, classID string, candidates map[string]bool, sortBy string) ([]string, error) {
	if sortBy == "" {
		ids := make([]string, 0, len(candidates))
		for id := range candidates {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids, nil
	}

	def, err := resolveAttribute(b.db, classID, sortBy)
	if err != nil {
		return nil, err
	}
	p, err := partitionFor(def.ValueType)
	if err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT entity_id FROM `+p.table+`
		WHERE attribute_id = ?
		ORDER BY value, entity_id`, def.AttributeID)
	if err != nil {
		return nil, fmt.Errorf("fetching sort order: %w", err)
	}
	defer rows.Close()

	ordered := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning sort row: %w", err)
		}
		if candidates[id] && !seen[id] {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Entities without the sort attribute follow, ascending by ID.
	rest := []string{}
	for id := range candidates {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...), nil
}

// HasDirectLink reports whether an edge fromID->toID exists. A non-empty
// linkType restricts the edge type.
func (b *Backend) HasDirectLink(fromID, toID, linkType string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return false, err
	}

	query := "SELECT 1 FROM links WHERE from_id = ? AND to_id = ?"
	args := []any{fromID, toID}
	if linkType != "" {
		query += " AND link_type = ?"
		args = append(args, linkType)
	}
	var one int
	err := b.db.QueryRow(query+" LIMIT 1", args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking link: %w", err)
	}
	return true, nil
}

// IsConnected reports whether toID is reachable from fromID over outgoing
// links within maxDepth edges (default 3 when zero).
func (b *Backend) IsConnected(ctx context.Context, fromID, toID string, maxDepth int) (bool, error) {
	if maxDepth <= 0 {
		maxDepth = types.DefaultConnectDepth
	}
	path, err := b.FindPath(ctx, fromID, toID, types.PathOptions{MaxDepth: maxDepth})
	if err != nil {
		return false, err
	}
	return len(path) > 0, nil
}

// FindPath returns the shortest entity-ID path from fromID to toID over
// outgoing links, including both endpoints, or an empty slice when no path
// exists within the depth bound. Breadth-first, so the first hit is a
// shortest path.
func (b *Backend) FindPath(ctx context.Context, fromID, toID string, opts types.PathOptions) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttachedLocked(); err != nil {
		return nil, err
	}
	for _, id := range []string{fromID, toID} {
		exists, err := b.entityExistsLocked(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, types.ErrUnknownEntity
		}
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = types.DefaultMaxPathDepth
	}
	if fromID == toID {
		return []string{fromID}, nil
	}

	query := "SELECT to_id FROM links WHERE from_id = ?"
	if len(opts.AllowedLinkTypes) > 0 {
		placeholders := make([]string, len(opts.AllowedLinkTypes))
		for i := range opts.AllowedLinkTypes {
			placeholders[i] = "?"
		}
		query += " AND link_type IN (" + strings.Join(placeholders, ",") + ")"
	}

	parent := map[string]string{fromID: ""}
	frontier := []string{fromID}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next []string
		for _, node := range frontier {
			args := []any{node}
			for _, lt := range opts.AllowedLinkTypes {
				args = append(args, lt)
			}
			rows, err := b.db.QueryContext(ctx, query, args...)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", node, err)
			}
			neighbors, err := scanIDs(rows)
			rows.Close()
			if err != nil {
				return nil, err
			}
			for _, n := range neighbors {
				if _, visited := parent[n]; visited {
					continue
				}
				parent[n] = node
				if n == toID {
					return assemblePath(parent, fromID, toID), nil
				}
				next = append(next, n)
			}
		}
		frontier = next
	}
	return []string{}, nil
}

// assemblePath walks the BFS parent map back from toID to fromID.
func assemblePath(parent map[string]string, fromID, toID string) []string {
	var rev []string
	for node := toID; node != ""; node = parent[node] {
		rev = append(rev, node)
		if node == fromID {
			break
		}
	}
	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// sqlOp maps predicate operators to SQL comparison operators.
func sqlOp(op string) string {
	switch op {
	case types.OpEq:
		return "="
	case types.OpLt:
		return "<"
	case types.OpLe:
		return "<="
	case types.OpGt:
		return ">"
	case types.OpGe:
		return ">="
	default:
		return "="
	}
}

// scanIDSet collects a single-column result set into an ID set.
func scanIDSet(rows *sql.Rows) (map[string]bool, error) {
	set := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning entity ID: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}

// intersect returns the intersection of two ID sets. A nil base means "no
// constraint yet" and adopts the other set.
func intersect(base, other map[string]bool) map[string]bool {
	if base == nil {
		return other
	}
	out := map[string]bool{}
	for id := range base {
		if other[id] {
			out[id] = true
		}
	}
	return out
}

// paginate applies offset and limit to an ordered result slice.
func paginate(ids []string, limit, offset int) []string {
	if offset > 0 {
		if offset >= len(ids) {
			return []string{}
		}
		ids = ids[offset:]
	}
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}
