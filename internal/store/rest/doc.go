// Package rest stores projects in a hosted PostgREST table, the interface
// Supabase exposes.
//
// Rows are written with complex fields encoded as JSON text, matching what
// the web dashboard writes, and read back through the project column codec
// so either JSON text or native JSON columns decode.
package rest
