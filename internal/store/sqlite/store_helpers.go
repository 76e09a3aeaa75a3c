package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"labdesk/internal/project"
)

const projectColumns = "id, title, slug, status, featured, hash, description, summary, tags, last_updated, image, tile_styles, links, updates, last_modified"

func scanProject(scanner interface{ Scan(dest ...any) error }) (project.Project, error) {
	var (
		id           string
		title        sql.NullString
		slug         sql.NullString
		status       sql.NullString
		featured     sql.NullInt64
		hash         sql.NullString
		description  sql.NullString
		summary      sql.NullString
		tags         sql.NullString
		lastUpdated  sql.NullString
		image        sql.NullString
		tileStyles   sql.NullString
		links        sql.NullString
		updates      sql.NullString
		lastModified sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&slug,
		&status,
		&featured,
		&hash,
		&description,
		&summary,
		&tags,
		&lastUpdated,
		&image,
		&tileStyles,
		&links,
		&updates,
		&lastModified,
	); err != nil {
		return project.Project{}, err
	}

	p := project.Project{
		ID:           id,
		Title:        title.String,
		Slug:         slug.String,
		Status:       project.Status(status.String),
		Featured:     featured.Valid && featured.Int64 != 0,
		Hash:         hash.String,
		Description:  description.String,
		Summary:      summary.String,
		LastUpdated:  lastUpdated.String,
		Image:        image.String,
		LastModified: lastModified.String,
	}
	p.DecodeColumns(project.RawColumns{
		Tags:       []byte(tags.String),
		TileStyles: []byte(tileStyles.String),
		Links:      []byte(links.String),
		Updates:    []byte(updates.String),
	})
	return p, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
