// Integration tests for JSONL persistence as the source of truth: data
// written through one engine survives detach, database deletion, and
// re-attach from the mirror files alone.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eavl-io/eavl/pkg/sqlite"
	"github.com/eavl-io/eavl/pkg/types"
)

func TestJSONLRoundtrip_SourceOfTruth(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	engine := sqlite.NewEngine()
	require.NoError(t, engine.Attach(config))

	classID, err := engine.CreateClass("car", "Car")
	require.NoError(t, err)
	carA, err := engine.CreateEntity(classID)
	require.NoError(t, err)
	carB, err := engine.CreateEntity(classID)
	require.NoError(t, err)
	require.NoError(t, engine.SetData(carA, map[string]any{"color": "red", "mileage": 5000}))
	require.NoError(t, engine.Link(carA, "tows", carB, nil))
	require.NoError(t, engine.Detach())

	// The mirror files exist and the database is expendable.
	for _, name := range []string{"classes.jsonl", "entities.jsonl", "attributes.jsonl", "links.jsonl", "values_text.jsonl", "values_integer.jsonl"} {
		_, err := os.Stat(filepath.Join(dataDir, name))
		assert.NoError(t, err, "%s must exist", name)
	}
	require.NoError(t, os.Remove(filepath.Join(dataDir, "eavl.db")))

	// Re-attach rebuilds everything from JSONL.
	engine2 := sqlite.NewEngine()
	require.NoError(t, engine2.Attach(config))
	defer engine2.Detach()

	data, err := engine2.GetData(carA)
	require.NoError(t, err)
	assert.Equal(t, "red", data["color"])
	assert.Equal(t, int64(5000), data["mileage"])

	targets, err := engine2.Targets(context.Background(), carA, "tows")
	require.NoError(t, err)
	assert.Equal(t, []string{carB}, targets)
}

func TestJSONLRoundtrip_MirrorLineCounts(t *testing.T) {
	engine, dataDir := newAttachedEngine(t)

	classID, err := engine.CreateClass("car", "")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		id, err := engine.CreateEntity(classID)
		require.NoError(t, err)
		require.NoError(t, engine.SetData(id, map[string]any{"mileage": i * 1000}))
	}

	lines := readJSONLLines(t, filepath.Join(dataDir, "entities.jsonl"))
	assert.Len(t, lines, 3, "entities.jsonl must have one line per entity")
	lines = readJSONLLines(t, filepath.Join(dataDir, "values_integer.jsonl"))
	assert.Len(t, lines, 3, "values_integer.jsonl must have one line per value")
}

func TestJSONLRoundtrip_OnCloseStrategy(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: types.SyncOnClose,
	}

	engine := sqlite.NewEngine()
	require.NoError(t, engine.Attach(config))

	_, err := engine.CreateClass("car", "")
	require.NoError(t, err)

	// Nothing on disk until Detach.
	_, statErr := os.Stat(filepath.Join(dataDir, "classes.jsonl"))
	assert.True(t, os.IsNotExist(statErr), "mirror must not be written before Detach")

	require.NoError(t, engine.Detach())

	lines := readJSONLLines(t, filepath.Join(dataDir, "classes.jsonl"))
	assert.Len(t, lines, 1)
}
