// File: nabeghe/configurator-go/doc.go

// Package configurator provides a sectioned configuration store: named
// sections of key/value data, each optionally backed by its own file, with
// default-value fallback, dot-path access, and lazy per-section loading.
//
// Features:
//   - Per-section files loaded on first access, never eagerly
//   - Explicit value over default resolution; an explicit nil shadows its default
//   - Dot paths ("db.pool.size") across sections and nested maps
//   - TOML, JSON, and YAML section files with stable key order
//   - Metadata cache (file blob or process-shared) to skip directory scans
//   - Struct scanning and struct-derived defaults via mapstructure
//   - Builder pattern for initialization
//
// Quick Start:
//
//	store := configurator.New(configurator.Options{
//	    Path: "/etc/myapp",
//	    Defaults: map[string]map[string]any{
//	        "db": {"host": "localhost", "port": int64(3306)},
//	    },
//	})
//
//	db := store.Section("db") // loads /etc/myapp/db.toml if present
//	host, _ := db.String("host")
//	db.Set("host", "10.0.0.5")
//	if err := db.Save(); err != nil { // persists non-default entries
//	    log.Fatal(err)
//	}
//
// Dot paths read and write across section boundaries, autovivifying
// intermediate maps on write:
//
//	store.SetPath("server.tls.cert", "/path/cert.pem")
//	cert, ok := store.GetPath("server.tls.cert")
//
// Stores without a base path are memory-only: values and defaults resolve
// normally, while load, save, and file deletion report failure.
//
// Thread Safety:
// All operations are thread-safe. The store uses a read-write mutex to
// allow concurrent reads while protecting writes; iteration visits a
// snapshot, so visitors may call back into the store.
package configurator
