package types

import "errors"

// Sync strategies control when the JSONL mirror is flushed to disk.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config holds backend selection and parameters for Engine.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// StrictLinkTypes rejects links whose type is not in the registered
	// vocabulary. When false, link types are free-form tags.
	StrictLinkTypes bool `json:"strict_link_types" yaml:"strict_link_types"`

	// SyncStrategy selects when JSONL files are rewritten: "immediate"
	// (default) after every committed mutation, or "on_close" at Detach.
	SyncStrategy string `json:"sync_strategy" yaml:"sync_strategy"`
}

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose:
	default:
		return ErrSyncStrategyUnknown
	}
	return nil
}

// GetSyncStrategy returns the effective sync strategy, defaulting to
// immediate when unset.
func (c Config) GetSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}
