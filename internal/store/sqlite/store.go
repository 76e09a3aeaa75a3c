package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"labdesk/internal/config"
	"labdesk/internal/logging"
	"labdesk/internal/project"
	"labdesk/internal/store"
)

// Store manages project persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open creates the data directories and opens the database named by
// cfg.SQLite.Path.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(context.Background(), cfg.SQLite.Path, logger)
}

// OpenPath opens (and initializes when new) the database at path.
func OpenPath(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "store").With(logging.String(logging.FieldBackend, config.BackendSQLite)),
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns every project ordered by last_modified, newest first.
func (s *Store) List(ctx context.Context) ([]project.Project, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY last_modified DESC, id`)
	if err != nil {
		return nil, store.Fail(store.OpFetch, err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, store.Fail(store.OpFetch, err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail(store.OpFetch, err)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// Get fetches a single project.
func (s *Store) Get(ctx context.Context, id string) (project.Project, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Project{}, store.NotFound(store.OpFetch, id)
	}
	if err != nil {
		return project.Project{}, store.Fail(store.OpFetch, err)
	}
	return p, nil
}

// Insert stores a new row. An existing id is an error.
func (s *Store) Insert(ctx context.Context, p project.Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return &store.Failure{Op: store.OpInsert, Message: "project id is required"}
	}
	cols, err := project.EncodeColumns(p)
	if err != nil {
		return store.Fail(store.OpInsert, err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Title,
		nullableString(p.Slug),
		nullableString(string(p.Status)),
		boolToInt(p.Featured),
		nullableString(p.Hash),
		nullableString(p.Description),
		nullableString(p.Summary),
		cols.Tags,
		nullableString(p.LastUpdated),
		nullableString(p.Image),
		cols.TileStyles,
		cols.Links,
		cols.Updates,
		nullableString(p.LastModified),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return &store.Failure{Op: store.OpInsert, Message: fmt.Sprintf("project %q already exists", p.ID), Err: err}
		}
		return store.Fail(store.OpInsert, err)
	}
	s.logger.Debug("project inserted", logging.ProjectID(p.ID))
	return nil
}

// Update writes the set fields of patch to the row with id.
func (s *Store) Update(ctx context.Context, id string, patch project.Patch) error {
	cols, err := patch.Columns()
	if err != nil {
		return store.Fail(store.OpUpdate, err)
	}
	if len(cols) == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return asOp(err, store.OpUpdate)
		}
		return nil
	}

	names := project.SortedColumnNames(cols)
	assignments := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		assignments = append(assignments, name+" = ?")
		args = append(args, columnArg(name, cols[name]))
	}
	args = append(args, id)

	res, err := s.execWithRetry(ctx,
		`UPDATE projects SET `+strings.Join(assignments, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return store.Fail(store.OpUpdate, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return store.NotFound(store.OpUpdate, id)
	}
	s.logger.Debug("project updated",
		logging.ProjectID(id),
		logging.Any("columns", names),
	)
	return nil
}

// Delete removes the row with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return store.Fail(store.OpDelete, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return store.NotFound(store.OpDelete, id)
	}
	s.logger.Debug("project deleted", logging.ProjectID(id))
	return nil
}

func asOp(err error, op string) error {
	var failure *store.Failure
	if errors.As(err, &failure) {
		copied := *failure
		copied.Op = op
		return &copied
	}
	return store.Fail(op, err)
}

func columnArg(name string, value any) any {
	switch v := value.(type) {
	case bool:
		return boolToInt(v)
	case string:
		switch name {
		case "title", project.ColumnTags, project.ColumnTileStyles, project.ColumnLinks, project.ColumnUpdates:
			return v
		}
		return nullableString(v)
	default:
		return v
	}
}
