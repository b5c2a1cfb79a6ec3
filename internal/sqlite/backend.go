package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eavl-io/eavl/pkg/types"
)

// JSONL mirror file names for the non-partition tables.
const (
	classesFile    = "classes.jsonl"
	entitiesFile   = "entities.jsonl"
	attributesFile = "attributes.jsonl"
	linkTypesFile  = "link_types.jsonl"
	linksFile      = "links.jsonl"
)

// dbFileName is the SQLite database file inside DataDir. It is rebuilt from
// the JSONL mirror on every Attach.
const dbFileName = "eavl.db"

// Backend implements types.Engine using SQLite as the query engine and
// JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	dataDir  string

	syncStrategy string
	dirty        map[string]bool // files pending JSONL persist (on_close)
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		dirty: make(map[string]bool),
	}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, builds the SQLite schema, and loads the
// JSONL mirror. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a rebuildable cache of the JSONL mirror; start fresh.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating indexes: %w", err)
		}
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("loading JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.syncStrategy = config.GetSyncStrategy()
	b.dirty = make(map[string]bool)
	b.attached = true

	return nil
}

// Detach releases backend resources. Flushes any pending JSONL writes
// first. Idempotent: detaching a detached backend succeeds.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushDirtyLocked(); err != nil {
		return fmt.Errorf("flushing pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// checkAttachedLocked returns ErrDetached when the backend is not
// attached. The caller must hold b.mu (read or write).
func (b *Backend) checkAttachedLocked() error {
	if !b.attached {
		return types.ErrDetached
	}
	return nil
}

// markDirtyLocked schedules the given JSONL files for persistence. Under
// the immediate strategy they are rewritten now; under on_close at Detach.
// The caller must hold b.mu write lock and have committed the SQLite
// transaction already.
func (b *Backend) markDirtyLocked(files ...string) error {
	if b.syncStrategy == types.SyncOnClose {
		for _, f := range files {
			b.dirty[f] = true
		}
		return nil
	}
	for _, f := range files {
		if err := b.persistFileLocked(f); err != nil {
			return err
		}
	}
	return nil
}

// flushDirtyLocked persists every file marked dirty. The caller must hold
// b.mu write lock.
func (b *Backend) flushDirtyLocked() error {
	for f := range b.dirty {
		if err := b.persistFileLocked(f); err != nil {
			return fmt.Errorf("flush %s: %w", f, err)
		}
		delete(b.dirty, f)
	}
	return nil
}

// entityExistsLocked reports whether an entity row exists.
func (b *Backend) entityExistsLocked(entityID string) (bool, error) {
	var one int
	err := b.db.QueryRow("SELECT 1 FROM entities WHERE entity_id = ?", entityID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking entity: %w", err)
	}
	return true, nil
}

// classExistsLocked reports whether a class row exists.
func (b *Backend) classExistsLocked(classID string) (bool, error) {
	var one int
	err := b.db.QueryRow("SELECT 1 FROM classes WHERE class_id = ?", classID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking class: %w", err)
	}
	return true, nil
}

// newUUID generates a UUID v7 string, falling back to v4 if v7 generation
// fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
