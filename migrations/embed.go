package migrations

import "embed"

// Store holds forward-only SQL migrations for the entry database.
//
//go:embed store/*.sql
var Store embed.FS

// Vault holds migrations for the PIN vault database, which is kept in its own file.
//
//go:embed vault/*.sql
var Vault embed.FS
