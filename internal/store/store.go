package store

import (
	"context"
	"errors"
	"fmt"

	"labdesk/internal/project"
)

// Store persists projects.
type Store interface {
	// List returns every project ordered by last_modified, newest first.
	List(ctx context.Context) ([]project.Project, error)
	Insert(ctx context.Context, p project.Project) error
	Update(ctx context.Context, id string, patch project.Patch) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Getter is implemented by backends that can fetch a single project without
// listing the table.
type Getter interface {
	Get(ctx context.Context, id string) (project.Project, error)
}

// ErrNotFound reports an id with no matching row.
var ErrNotFound = errors.New("project not found")

// Operation names used in Failure.Op.
const (
	OpFetch  = "fetch"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Failure is the error every backend returns for a failed operation.
type Failure struct {
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" && f.Err != nil {
		msg = f.Err.Error()
	}
	return fmt.Sprintf("failed to %s project: %s", f.Op, msg)
}

func (f *Failure) Unwrap() error { return f.Err }

// Fail builds a Failure for op wrapping err. The message defaults to the
// error text.
func Fail(op string, err error) *Failure {
	f := &Failure{Op: op, Err: err}
	if err != nil {
		f.Message = err.Error()
	}
	return f
}

// NotFound builds the Failure returned when id does not exist.
func NotFound(op, id string) *Failure {
	return &Failure{Op: op, Message: fmt.Sprintf("no project with id %q", id), Err: ErrNotFound}
}

// Get fetches one project, using the backend's Getter when available and
// falling back to a full listing.
func Get(ctx context.Context, s Store, id string) (project.Project, error) {
	if g, ok := s.(Getter); ok {
		return g.Get(ctx, id)
	}
	projects, err := s.List(ctx)
	if err != nil {
		return project.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return project.Project{}, NotFound(OpFetch, id)
}
