// Package store defines the persistence contract for projects.
//
// Backends live in subpackages: sqlite keeps a local database file and rest
// talks to a hosted PostgREST endpoint. Both report failures as *Failure so
// callers can render the same message regardless of where the row lives.
package store
