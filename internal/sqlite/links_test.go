// Tests for the link store.
package sqlite

import (
	"context"
	"testing"

	"github.com/eavl-io/eavl/pkg/types"
)

// makeEntities creates a class and n entities of it.
func makeEntities(t *testing.T, b *Backend, n int) []string {
	t.Helper()

	classID, err := b.CreateClass("node", "")
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, n)
	for i := range ids {
		id, err := b.CreateEntity(classID)
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
	}
	return ids
}

func TestLink(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 2)

	if err := b.Link(ids[0], "follows", ids[1], nil); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	ok, err := b.HasDirectLink(ids[0], ids[1], "follows")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("link not found after create")
	}

	// Direction matters.
	ok, err = b.HasDirectLink(ids[1], ids[0], "follows")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("reverse direction should not exist")
	}
}

func TestLink_UnknownEndpoint(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 1)

	if err := b.Link(ids[0], "follows", "no-such-entity", nil); err != types.ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if err := b.Link("no-such-entity", "follows", ids[0], nil); err != types.ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestLink_DuplicateIdempotent(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 2)

	if err := b.Link(ids[0], "follows", ids[1], nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[0], "follows", ids[1], nil); err != nil {
		t.Fatalf("duplicate link should be idempotent, got %v", err)
	}

	targets, err := b.Targets(context.Background(), ids[0], "follows")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 {
		t.Errorf("expected 1 target, got %d", len(targets))
	}
}

func TestLink_PositionUpdate(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 3)

	pos0, pos1 := 0, 1
	if err := b.Link(ids[0], "contains", ids[1], &pos1); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[0], "contains", ids[2], &pos0); err != nil {
		t.Fatal(err)
	}

	targets, err := b.Targets(context.Background(), ids[0], "contains")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 || targets[0] != ids[2] || targets[1] != ids[1] {
		t.Fatalf("expected position order [%s %s], got %v", ids[2], ids[1], targets)
	}

	// Re-linking with a different position reorders.
	pos2 := 2
	if err := b.Link(ids[0], "contains", ids[2], &pos2); err != nil {
		t.Fatal(err)
	}
	targets, err = b.Targets(context.Background(), ids[0], "contains")
	if err != nil {
		t.Fatal(err)
	}
	if targets[0] != ids[1] || targets[1] != ids[2] {
		t.Errorf("expected reorder to [%s %s], got %v", ids[1], ids[2], targets)
	}
}

func TestLink_NilPositionKeepsExisting(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 3)

	pos0, pos1 := 0, 1
	if err := b.Link(ids[0], "contains", ids[1], &pos0); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[0], "contains", ids[2], &pos1); err != nil {
		t.Fatal(err)
	}

	// Re-linking without a position must not clear the stored one.
	if err := b.Link(ids[0], "contains", ids[1], nil); err != nil {
		t.Fatal(err)
	}

	targets, err := b.Targets(context.Background(), ids[0], "contains")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 || targets[0] != ids[1] || targets[1] != ids[2] {
		t.Errorf("expected order [%s %s] preserved, got %v", ids[1], ids[2], targets)
	}
}

func TestTargets_UnpositionedLast(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 4)

	pos := 5
	if err := b.Link(ids[0], "contains", ids[1], nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[0], "contains", ids[2], &pos); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[0], "contains", ids[3], nil); err != nil {
		t.Fatal(err)
	}

	targets, err := b.Targets(context.Background(), ids[0], "contains")
	if err != nil {
		t.Fatal(err)
	}
	// Positioned edge first, unpositioned in creation order after.
	want := []string{ids[2], ids[1], ids[3]}
	for i, id := range want {
		if targets[i] != id {
			t.Fatalf("expected %v, got %v", want, targets)
		}
	}
}

func TestSources_CreationOrder(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 3)

	if err := b.Link(ids[1], "follows", ids[0], nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[2], "follows", ids[0], nil); err != nil {
		t.Fatal(err)
	}

	sources, err := b.Sources(context.Background(), ids[0], "follows")
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 || sources[0] != ids[1] || sources[1] != ids[2] {
		t.Errorf("expected [%s %s], got %v", ids[1], ids[2], sources)
	}
}

func TestUnlink_Idempotent(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 2)

	if err := b.Link(ids[0], "follows", ids[1], nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Unlink(ids[0], "follows", ids[1]); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}

	ok, err := b.HasDirectLink(ids[0], ids[1], "follows")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("link still present after unlink")
	}

	// Second unlink never errors, nor does unlinking an edge that never was.
	if err := b.Unlink(ids[0], "follows", ids[1]); err != nil {
		t.Errorf("second Unlink should not error, got %v", err)
	}
	if err := b.Unlink(ids[1], "follows", ids[0]); err != nil {
		t.Errorf("Unlink of missing edge should not error, got %v", err)
	}
}

func TestLink_StrictLinkTypes(t *testing.T) {
	b := NewBackend()
	config := types.Config{
		Backend:         types.BackendSQLite,
		DataDir:         t.TempDir(),
		StrictLinkTypes: true,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	ids := makeEntities(t, b, 2)

	if err := b.Link(ids[0], "follows", ids[1], nil); err != types.ErrUnknownLinkType {
		t.Errorf("expected ErrUnknownLinkType, got %v", err)
	}

	if err := b.DefineLinkType("follows", ""); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(ids[0], "follows", ids[1], nil); err != nil {
		t.Errorf("Link with registered type failed: %v", err)
	}
}

func TestHasDirectLink_AnyType(t *testing.T) {
	b := newTestBackend(t)
	ids := makeEntities(t, b, 2)

	if err := b.Link(ids[0], "follows", ids[1], nil); err != nil {
		t.Fatal(err)
	}

	// Empty link type matches any edge type.
	ok, err := b.HasDirectLink(ids[0], ids[1], "")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected any-type match")
	}
	ok, err = b.HasDirectLink(ids[0], ids[1], "contains")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no match for different type")
	}
}
