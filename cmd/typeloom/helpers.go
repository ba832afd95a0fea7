// Shared helpers for typeloom CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	goredis "github.com/go-redis/redis/v8"

	redislookups "github.com/typeloom/typeloom/internal/redis"
	"github.com/typeloom/typeloom/internal/sqlite"
	"github.com/typeloom/typeloom/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend,
// and attaches it. When config.yaml selects redis lookups, record
// validation queries a Redis index instead of the store itself. The
// caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:   types.BackendSQLite,
		DataDir:   dataDir,
		Lookups:   configLookups,
		RedisAddr: configRedisAddr,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	if cfg.Lookups == types.LookupsRedis {
		addr := cfg.RedisAddr
		if addr == "" {
			addr = defaultRedisAddr
		}
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		backend.UseLookups(redislookups.NewLookups(client))
	}

	return backend, nil
}

// readInput reads the named file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// printEntity writes an entity as indented JSON when --json is set, or
// falls back to the provided plain line.
func printEntity(entity any, plain string) error {
	if flagJSON {
		output, err := json.MarshalIndent(entity, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}
	fmt.Println(plain)
	return nil
}

// printList writes a fetched entity list as a JSON array when --json is
// set, or one plain line per entity via the line function.
func printList(entities []any, line func(any) string) error {
	if flagJSON {
		output, err := json.MarshalIndent(entities, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}
	for _, e := range entities {
		fmt.Println(line(e))
	}
	return nil
}
