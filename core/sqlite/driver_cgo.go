//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3, selected by the cgo_sqlite build
// tag. The driver registration lives in contrib/sqlite-external.
package sqlite

import (
	sqliteexternal "github.com/FocuswithJustin/JuniperPhonetic/contrib/sqlite-external"
)

const (
	driverName    = sqliteexternal.DriverName
	driverType    = sqliteexternal.DriverType
	driverPackage = sqliteexternal.DriverPackage + " (via contrib/sqlite-external)"
)
