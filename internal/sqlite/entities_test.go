// Tests for the entity façade: attribute bags, schema-on-write, cascades.
package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eavl-io/eavl/pkg/types"
)

func TestCreateEntity(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}

	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}

	entity, err := b.GetEntity(entityID)
	if err != nil {
		t.Fatalf("GetEntity failed: %v", err)
	}
	if entity.ClassID != classID {
		t.Errorf("expected class %s, got %s", classID, entity.ClassID)
	}

	_, err = b.CreateEntity("no-such-class")
	if err != types.ErrUnknownClass {
		t.Errorf("expected ErrUnknownClass, got %v", err)
	}
}

func TestSetData_WriteThenRead(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}

	bought := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	data := map[string]any{
		"color":   "red",
		"mileage": 5000,
		"price":   19999.5,
		"used":    true,
		"bought":  bought,
	}
	if err := b.SetData(entityID, data); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	got, err := b.GetData(entityID)
	if err != nil {
		t.Fatalf("GetData failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 attributes, got %d: %v", len(got), got)
	}
	if got["color"] != "red" {
		t.Errorf("color: expected red, got %v", got["color"])
	}
	if got["mileage"] != int64(5000) {
		t.Errorf("mileage: expected int64 5000, got %v (%T)", got["mileage"], got["mileage"])
	}
	if got["price"] != 19999.5 {
		t.Errorf("price: expected 19999.5, got %v", got["price"])
	}
	if got["used"] != true {
		t.Errorf("used: expected true, got %v", got["used"])
	}
	ts, ok := got["bought"].(time.Time)
	if !ok || !ts.Equal(bought) {
		t.Errorf("bought: expected %v, got %v", bought, got["bought"])
	}
}

func TestSetData_SchemaOnWrite(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}

	// No definitions exist; the first write creates them.
	if err := b.SetData(entityID, map[string]any{"color": "red", "mileage": 5000}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	def, err := b.ResolveAttribute(classID, "color")
	if err != nil {
		t.Fatalf("color not defined on write: %v", err)
	}
	if def.ValueType != types.ValueTypeText {
		t.Errorf("color: expected text, got %s", def.ValueType)
	}
	def, err = b.ResolveAttribute(classID, "mileage")
	if err != nil {
		t.Fatalf("mileage not defined on write: %v", err)
	}
	if def.ValueType != types.ValueTypeInteger {
		t.Errorf("mileage: expected integer, got %s", def.ValueType)
	}
}

func TestSetData_TypeLock(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.SetData(entityID, map[string]any{"mileage": 5000}); err != nil {
		t.Fatal(err)
	}

	// The first write locked mileage to integer.
	err = b.SetData(entityID, map[string]any{"mileage": "a lot"})
	if !errors.Is(err, types.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	// The failed write must not have clobbered the old value.
	value, ok, err := b.GetValue(entityID, "mileage")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != int64(5000) {
		t.Errorf("expected 5000 to survive, got %v (ok=%v)", value, ok)
	}
}

func TestSetData_IntForFloat(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.DefineAttribute(classID, "price", types.ValueTypeFloat, false); err != nil {
		t.Fatal(err)
	}

	// An integer payload is valid for a float attribute.
	if err := b.SetData(entityID, map[string]any{"price": 5}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	value, ok, err := b.GetValue(entityID, "price")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != float64(5) {
		t.Errorf("expected float64 5, got %v (%T)", value, value)
	}
}

func TestSetData_Overwrite(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.SetData(entityID, map[string]any{"color": "red"}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetData(entityID, map[string]any{"color": "blue"}); err != nil {
		t.Fatal(err)
	}

	got, err := b.GetData(entityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["color"] != "blue" {
		t.Errorf("expected single value blue, got %v", got)
	}
}

func TestSetData_UnknownEntity(t *testing.T) {
	b := newTestBackend(t)

	err := b.SetData("no-such-entity", map[string]any{"color": "red"})
	if err != types.ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestGetValue_Absent(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.DefineAttribute(classID, "color", types.ValueTypeText, false); err != nil {
		t.Fatal(err)
	}

	// Defined but unset: absence is a result, not an error.
	value, ok, err := b.GetValue(entityID, "color")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if ok || value != nil {
		t.Errorf("expected absent value, got %v (ok=%v)", value, ok)
	}

	// Undefined name is an error.
	_, _, err = b.GetValue(entityID, "shape")
	if err != types.ErrUnknownAttribute {
		t.Errorf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestDeleteValue_Idempotent(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	entityID, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetData(entityID, map[string]any{"color": "red"}); err != nil {
		t.Fatal(err)
	}

	if err := b.DeleteValue(entityID, "color"); err != nil {
		t.Fatalf("DeleteValue failed: %v", err)
	}
	_, ok, err := b.GetValue(entityID, "color")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("value still present after delete")
	}

	// Second delete never errors.
	if err := b.DeleteValue(entityID, "color"); err != nil {
		t.Errorf("second DeleteValue should not error, got %v", err)
	}
	// Deleting a name never defined also succeeds.
	if err := b.DeleteValue(entityID, "shape"); err != nil {
		t.Errorf("DeleteValue of undefined name should not error, got %v", err)
	}
}

func TestDeleteEntity_Cascade(t *testing.T) {
	b := newTestBackend(t)

	classID, err := b.CreateClass("car", "")
	if err != nil {
		t.Fatal(err)
	}
	victim, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}
	other, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.SetData(victim, map[string]any{"color": "red", "mileage": 5000}); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(victim, "follows", other, nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(other, "follows", victim, nil); err != nil {
		t.Fatal(err)
	}

	if err := b.DeleteEntity(victim); err != nil {
		t.Fatalf("DeleteEntity failed: %v", err)
	}

	if _, err := b.GetEntity(victim); err != types.ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity after delete, got %v", err)
	}
	if _, err := b.GetData(victim); err != types.ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity from GetData, got %v", err)
	}

	// Edges in both directions are gone.
	ctx := context.Background()
	targets, err := b.Targets(ctx, other, "follows")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 0 {
		t.Errorf("expected no targets, got %v", targets)
	}
	sources, err := b.Sources(ctx, other, "follows")
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %v", sources)
	}

	// The other entity is untouched.
	if _, err := b.GetEntity(other); err != nil {
		t.Errorf("sibling entity lost: %v", err)
	}

	if err := b.DeleteEntity(victim); err != types.ErrUnknownEntity {
		t.Errorf("expected ErrUnknownEntity on second delete, got %v", err)
	}
}
