package preflight

import (
	"context"

	"labdesk/internal/config"
	"labdesk/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg. The store check is skipped
// when s is nil, which is how doctor reports a store that failed to open.
func RunAll(ctx context.Context, cfg *config.Config, s store.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Data directory", cfg.Paths.DataDir)}
	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if s != nil {
		results = append(results, CheckStore(ctx, cfg.Store.Backend, s))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
