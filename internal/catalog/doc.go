// Package catalog is the service layer over a project store.
//
// It owns the content-hash lifecycle: new and edited projects have their
// update entries sealed and their hash recomputed before they are written,
// edits whose content hash matches the stored one are skipped, and Verify
// reports stored hashes that no longer match their content. The store is
// injected, so the same rules apply to the local and hosted backends.
package catalog
