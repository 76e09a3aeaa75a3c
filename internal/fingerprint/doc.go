// Package fingerprint computes deterministic content digests for records.
//
// This package has no labdesk-specific dependencies and could be extracted
// as a standalone library.
//
// A record is reduced to canonical text (JSON with object keys sorted at
// every nesting level) and the canonical text is hashed with MD5. The digest
// is a change fingerprint only; it offers no protection against deliberate
// collisions.
//
// Primary entry points:
//   - Canonicalize: renders any JSON-shaped value as canonical text
//   - Fingerprint: digests a record with one top-level field excluded so the
//     digest can be stored on the record it describes
package fingerprint
