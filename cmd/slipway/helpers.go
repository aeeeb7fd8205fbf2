// Shared helpers for slipway CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skagerrak-boats/slipway/internal/filekv"
	"github.com/skagerrak-boats/slipway/internal/paths"
	"github.com/skagerrak-boats/slipway/internal/sqlite"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// validNamespacesStr is a comma-separated list of namespaces for error output.
var validNamespacesStr = strings.Join(types.StandardNamespaces, ", ")

// attachBackend resolves the config and data directories, creates the
// configured backend, and attaches it. The caller must detach the
// returned backend.
func attachBackend() (types.Backend, error) {
	configDir, err := paths.ResolveConfigDir(configDirFlag)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	var b types.Backend
	switch cfg.Backend {
	case types.BackendFile:
		b = filekv.NewBackend()
	case types.BackendSQLite:
		b = sqlite.NewBackend()
	}

	if err := b.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return b, nil
}

// checkNamespace validates a namespace argument for error messages.
func checkNamespace(namespace string) error {
	for _, ns := range types.StandardNamespaces {
		if ns == namespace {
			return nil
		}
	}
	return fmt.Errorf("unknown namespace %q (valid: %s)", namespace, validNamespacesStr)
}

// parseFilterArgs turns key=value arguments into a filter map. Values
// that parse as JSON keep their structured form, everything else stays
// a string.
func parseFilterArgs(args []string) (types.Where, error) {
	if len(args) == 0 {
		return nil, nil
	}
	filter := make(types.Where, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid filter %q (expected key=value)", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(parts[1]), &parsed); err != nil {
			parsed = parts[1]
		}
		filter[parts[0]] = parsed
	}
	return filter, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

const timestampFormat = "2006-01-02 15:04:05"

// printRecord outputs one record, honoring --json.
func printRecord(rec types.Record) error {
	if flagJSON {
		return printJSON(rec)
	}
	meta := rec.Meta()
	fmt.Printf("ID:        %s\n", meta.ID)
	fmt.Printf("Version:   %d\n", meta.Version)
	fmt.Printf("Created:   %s\n", meta.CreatedAt.Format(timestampFormat))
	fmt.Printf("Updated:   %s\n", meta.UpdatedAt.Format(timestampFormat))
	if name, ok := rec.Field("name"); ok {
		fmt.Printf("Name:      %v\n", name)
	}
	if code, ok := rec.Field("code"); ok {
		fmt.Printf("Code:      %v\n", code)
	}
	return nil
}

// printRecords outputs a record list, honoring --json.
func printRecords(recs []types.Record) error {
	if flagJSON {
		return printJSON(recs)
	}
	for _, rec := range recs {
		meta := rec.Meta()
		line := fmt.Sprintf("%s  v%d  %s", meta.ID, meta.Version, meta.UpdatedAt.Format(timestampFormat))
		if name, ok := rec.Field("name"); ok {
			line += fmt.Sprintf("  %v", name)
		}
		fmt.Println(line)
	}
	fmt.Printf("%d record(s)\n", len(recs))
	return nil
}
