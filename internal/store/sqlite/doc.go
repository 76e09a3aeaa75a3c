// Package sqlite persists projects in a local SQLite database.
//
// The Store applies WAL and busy-timeout pragmas on open, creates the schema
// from the embedded schema.sql, and refuses to open a database written by a
// different schema version. Complex project fields (tags, tile styles, links,
// updates) are stored as JSON text columns and decoded with the project
// column codec, so malformed text surfaces as project issues instead of
// failing the whole listing.
//
// When the schema changes, update schema.sql and bump schemaVersion.
package sqlite
