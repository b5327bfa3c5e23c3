package pubindex

import "embed"

// Migrations holds the goose migrations of the SQLite image cache.
//
//go:embed migrations/*.sql
var Migrations embed.FS
