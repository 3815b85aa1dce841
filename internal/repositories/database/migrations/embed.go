// Package migrations embeds the schema for every supported store driver.
package migrations

import "embed"

// Postgres holds the golang-migrate files for the pgx driver.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the golang-migrate files for the sqlite driver.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
