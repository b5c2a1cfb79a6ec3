// Tests for the JSONL mirror: sync strategies and rebuild on Attach.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eavl-io/eavl/pkg/types"
)

func TestImmediateSync_WritesMirrorOnMutation(t *testing.T) {
	dataDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		// Immediate is the default; spelled out for clarity.
		SyncStrategy: types.SyncImmediate,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	if _, err := b.CreateClass("car", ""); err != nil {
		t.Fatal(err)
	}

	// The mirror file exists before Detach.
	records, err := readJSONL(filepath.Join(dataDir, classesFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 class record in mirror, got %d", len(records))
	}
}

func TestOnCloseSync_WritesMirrorAtDetach(t *testing.T) {
	dataDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: types.SyncOnClose,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if _, err := b.CreateClass("car", ""); err != nil {
		t.Fatal(err)
	}

	// Nothing flushed yet.
	if _, err := os.Stat(filepath.Join(dataDir, classesFile)); !os.IsNotExist(err) {
		t.Errorf("mirror written before Detach under on_close: %v", err)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	records, err := readJSONL(filepath.Join(dataDir, classesFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 class record after Detach, got %d", len(records))
	}
}

func TestMirrorRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	bought := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	pos := 1

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	classID, err := b.CreateClass("car", "Car")
	if err != nil {
		t.Fatal(err)
	}
	carA, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}
	carB, err := b.CreateEntity(classID)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetData(carA, map[string]any{
		"color":   "red",
		"mileage": 5000,
		"price":   19999.5,
		"used":    true,
		"bought":  bought,
	}); err != nil {
		t.Fatal(err)
	}
	if err := b.DefineLinkType("tows", "towing edge"); err != nil {
		t.Fatal(err)
	}
	if err := b.Link(carA, "tows", carB, &pos); err != nil {
		t.Fatal(err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Deleting the database forces a rebuild from the JSONL mirror alone.
	if err := os.Remove(filepath.Join(dataDir, dbFileName)); err != nil {
		t.Fatal(err)
	}

	b2 := NewBackend()
	if err := b2.Attach(config); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b2.Detach()

	class, err := b2.GetClass(classID)
	if err != nil {
		t.Fatalf("class lost in round trip: %v", err)
	}
	if class.Name != "car" || class.VerboseName != "Car" {
		t.Errorf("unexpected class %+v", class)
	}

	data, err := b2.GetData(carA)
	if err != nil {
		t.Fatalf("entity data lost in round trip: %v", err)
	}
	if data["color"] != "red" || data["mileage"] != int64(5000) ||
		data["price"] != 19999.5 || data["used"] != true {
		t.Errorf("unexpected data %v", data)
	}
	ts, ok := data["bought"].(time.Time)
	if !ok || !ts.Equal(bought) {
		t.Errorf("timestamp lost: got %v", data["bought"])
	}

	targets, err := b2.Targets(context.Background(), carA, "tows")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 || targets[0] != carB {
		t.Errorf("link lost in round trip: %v", targets)
	}

	lts, err := b2.ListLinkTypes()
	if err != nil {
		t.Fatal(err)
	}
	if len(lts) != 1 || lts[0].Name != "tows" {
		t.Errorf("link type vocabulary lost: %v", lts)
	}
}

func TestMirror_DeleteShrinksFiles(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatal(err)
	}
	defer b.Detach()

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
	if err := b.DeleteEntity(entityID); err != nil {
		t.Fatal(err)
	}

	records, err := readJSONL(filepath.Join(dataDir, entitiesFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty entities mirror, got %d records", len(records))
	}
	records, err = readJSONL(filepath.Join(dataDir, "values_text.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty text partition mirror, got %d records", len(records))
	}
}
