package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// DefaultExcludeField is the top-level field that conventionally stores the
// digest of its own record.
const DefaultExcludeField = "hash"

// Digest is a 128-bit content fingerprint.
type Digest [md5.Size]byte

// String renders the digest as 32 lowercase hex characters.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a 32-character hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parse digest: %w", err)
	}
	if len(raw) != md5.Size {
		return d, fmt.Errorf("parse digest: want %d bytes, got %d", md5.Size, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

// Sum digests canonical text.
func Sum(canonical string) Digest {
	return Digest(md5.Sum([]byte(canonical)))
}

// CanonicalRecord renders record as canonical JSON with the top-level field
// exclude removed. Nested fields sharing the excluded name are kept. The
// record itself is never modified.
func CanonicalRecord(record Record, exclude string) (string, error) {
	rest := make(map[string]any, len(record))
	for k, v := range record {
		if k == exclude {
			continue
		}
		rest[k] = v
	}
	return Canonicalize(rest)
}

// Fingerprint digests the canonical form of record without exclude.
func Fingerprint(record Record, exclude string) (Digest, error) {
	canonical, err := CanonicalRecord(record, exclude)
	if err != nil {
		return Digest{}, fmt.Errorf("fingerprint: %w", err)
	}
	return Sum(canonical), nil
}

// Hex is Fingerprint rendered as a string.
func Hex(record Record, exclude string) (string, error) {
	d, err := Fingerprint(record, exclude)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
