// Package transfer moves projects between stores as JSON documents.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"labdesk/internal/catalog"
	"labdesk/internal/logging"
	"labdesk/internal/project"
	"labdesk/internal/store"
)

// ErrLocked is returned when another import holds the lock file.
var ErrLocked = errors.New("another import is running")

// Export writes every stored project to w as an indented JSON array and
// returns how many were written.
func Export(ctx context.Context, s store.Store, w io.Writer) (int, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	return len(projects), nil
}

// Report lists what Import did with each project in the document.
type Report struct {
	Added   []string
	Skipped []string
}

// Importer adds exported projects through a catalog.
type Importer struct {
	Catalog  *catalog.Catalog
	LockPath string
	Logger   *slog.Logger
}

// Import reads a JSON array of projects from r and adds those whose id is
// not already stored. Only one import may run per lock file; a held lock
// fails immediately with ErrLocked.
func (im Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	logger := logging.NewComponentLogger(im.Logger, "transfer")

	if err := os.MkdirAll(filepath.Dir(im.LockPath), 0o755); err != nil {
		return Report{}, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(im.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Report{}, fmt.Errorf("%w (lock file %s)", ErrLocked, im.LockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release import lock", logging.Error(err))
		}
	}()

	projects, err := decode(r)
	if err != nil {
		return Report{}, err
	}

	existing, err := im.Catalog.Store().List(ctx)
	if err != nil {
		return Report{}, err
	}
	seen := make(map[string]struct{}, len(existing)+len(projects))
	for _, p := range existing {
		seen[p.ID] = struct{}{}
	}

	var report Report
	for _, p := range projects {
		if p.ID != "" {
			if _, dup := seen[p.ID]; dup {
				report.Skipped = append(report.Skipped, p.ID)
				logger.Info("skipping existing project", logging.ProjectID(p.ID))
				continue
			}
		}
		added, err := im.Catalog.Add(ctx, p)
		if err != nil {
			return report, fmt.Errorf("import %q: %w", p.Title, err)
		}
		seen[added.ID] = struct{}{}
		report.Added = append(report.Added, added.ID)
	}
	logger.Info("import finished",
		logging.Int("added", len(report.Added)),
		logging.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

func decode(r io.Reader) ([]project.Project, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var projects []project.Project
	if err := dec.Decode(&projects); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}
	return projects, nil
}
