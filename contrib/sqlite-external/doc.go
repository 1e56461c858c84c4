// Package sqliteexternal provides the optional CGO SQLite driver for the
// phonetic name index.
//
// To use the CGO driver (github.com/mattn/go-sqlite3), build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// core/sqlite then registers "sqlite3" through this package instead of the
// default pure Go modernc.org/sqlite driver. Prefer the CGO driver for large
// indexes; prefer the default for cross-compiled single binaries.
package sqliteexternal
