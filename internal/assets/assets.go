package assets

import (
	"embed"
	"io/fs"
)

// Curated lookup tables and lesson bundles (embedded)

//go:embed embedded_tables
var Tables embed.FS

// GetTablesFS returns the embedded tables rooted at embedded_tables.
func GetTablesFS() fs.FS {
	if sub, err := fs.Sub(Tables, "embedded_tables"); err == nil {
		return sub
	}
	return Tables
}
