package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"labdesk/internal/store"
)

// storeCheckTimeout bounds the listing used to probe the store.
const storeCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStore lists the store within storeCheckTimeout and reports how many
// projects it holds and how many have undecodable columns.
func CheckStore(ctx context.Context, backend string, s store.Store) Result {
	name := fmt.Sprintf("Store (%s)", backend)

	checkCtx, cancel := context.WithTimeout(ctx, storeCheckTimeout)
	defer cancel()

	projects, err := s.List(checkCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: fmt.Sprintf("timed out after %s", storeCheckTimeout)}
		}
		return Result{Name: name, Detail: err.Error()}
	}

	flagged := 0
	for _, p := range projects {
		if len(p.Issues) > 0 {
			flagged++
		}
	}
	if flagged > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%d projects, %d with undecodable columns", len(projects), flagged)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d projects reachable", len(projects))}
}
