// Package sqlite provides the public API for the SQLite EAVL backend.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/eavl-io/eavl/internal/sqlite"
	"github.com/eavl-io/eavl/pkg/types"
)

// NewEngine creates a new SQLite engine instance. The engine is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	engine := sqlite.NewEngine()
//	err := engine.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".eavl-db",
//	})
//	defer engine.Detach()
func NewEngine() types.Engine {
	return sqlite.NewBackend()
}
