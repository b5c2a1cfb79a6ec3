// Shared helpers for eavl CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eavl-io/eavl/pkg/sqlite"
	"github.com/eavl-io/eavl/pkg/types"
)

// attachEngine resolves the data directory, creates a SQLite engine, and
// attaches it. The caller must defer engine.Detach().
func attachEngine() (types.Engine, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:         types.BackendSQLite,
		DataDir:         dataDir,
		StrictLinkTypes: configStrictLinks,
	}

	engine := sqlite.NewEngine()
	if err := engine.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach engine: %w", err)
	}

	return engine, nil
}

// parseKVArgs splits name=value arguments into a data map with typed
// literals. Returns an error on the first malformed argument.
func parseKVArgs(args []string) (map[string]any, error) {
	data := make(map[string]any, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed argument %q, want name=value", arg)
		}
		data[name] = parseTypedLiteral(raw)
	}
	return data, nil
}

// parseTypedLiteral interprets a command-line value as the most specific
// type it parses as: boolean, integer, float, RFC3339 timestamp, then text.
// Surrounding single quotes force text.
func parseTypedLiteral(raw string) any {
	if len(raw) >= 2 && strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
		return raw[1 : len(raw)-1]
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	return raw
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// fail prints a prefixed error to stderr and exits with the given code.
func fail(code int, prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	os.Exit(code)
}

// formatValue renders an attribute value for human-readable output.
func formatValue(v any) string {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}
