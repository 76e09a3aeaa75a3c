// Package project models the records labdesk manages: projects and the
// dated update entries attached to them.
//
// It owns the column codec shared by every store backend (complex columns
// travel as JSON text), the content hashes stored on projects and updates,
// partial-update patches, link validation, slug derivation, search matching,
// and dashboard statistics. Nothing here performs I/O.
//
// Column text that fails to decode never aborts a read. The column falls back
// to its empty value and a ColumnIssue is recorded on the project so callers
// can surface the problem instead of silently losing data.
package project
