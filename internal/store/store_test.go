package store_test

import (
	"context"
	"errors"
	"testing"

	"labdesk/internal/project"
	"labdesk/internal/store"
)

type listOnly struct {
	projects []project.Project
	err      error
}

func (l listOnly) List(context.Context) ([]project.Project, error) { return l.projects, l.err }
func (listOnly) Insert(context.Context, project.Project) error      { return nil }
func (listOnly) Update(context.Context, string, project.Patch) error {
	return nil
}
func (listOnly) Delete(context.Context, string) error { return nil }
func (listOnly) Close() error                         { return nil }

func TestFailureMessage(t *testing.T) {
	err := store.Fail(store.OpInsert, errors.New("duplicate key"))
	if got := err.Error(); got != "failed to insert project: duplicate key" {
		t.Fatalf("unexpected message %q", got)
	}

	var failure *store.Failure
	wrapped := error(store.NotFound(store.OpDelete, "p-1"))
	if !errors.As(wrapped, &failure) || failure.Op != store.OpDelete {
		t.Fatalf("expected Failure, got %#v", wrapped)
	}
	if !errors.Is(wrapped, store.ErrNotFound) {
		t.Fatal("expected ErrNotFound to unwrap")
	}
}

func TestGetFallsBackToList(t *testing.T) {
	s := listOnly{projects: []project.Project{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}

	got, err := store.Get(context.Background(), s, "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "B" {
		t.Fatalf("unexpected project %#v", got)
	}

	if _, err := store.Get(context.Background(), s, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	boom := errors.New("boom")
	if _, err := store.Get(context.Background(), listOnly{err: boom}, "a"); !errors.Is(err, boom) {
		t.Fatalf("expected list error, got %v", err)
	}
}
