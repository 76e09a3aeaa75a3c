package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "modernc.org/sqlite"

	"labdesk/internal/logging"
	"labdesk/internal/project"
	"labdesk/internal/store"
	"labdesk/internal/store/sqlite"
	"labdesk/internal/testsupport"
)

func TestInsertAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	want := testsupport.Project("p-1", "Orbit Tracker")
	want.Featured = true
	want.Hash = "abc"
	want.TileStyles = map[string]any{"accent": "#123456", "span": 2.0}
	want.Updates = []project.Update{{Date: "2024-03-01T12:00:00.000Z", Hash: "h", Title: "v1", Content: "Shipped"}}
	want.LastModified = "2024-03-02T00:00:00.000Z"
	testsupport.MustInsert(t, s, want)

	got, err := s.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// JSON numbers decode as json.Number; compare the canonical hash instead
	// of the raw tile styles.
	opts := cmpopts.IgnoreFields(project.Project{}, "TileStyles")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	wantHash, _ := want.ComputeHash("hash")
	gotHash, _ := got.ComputeHash("hash")
	if wantHash != gotHash {
		t.Fatalf("content hash changed across storage: %s vs %s", wantHash, gotHash)
	}
}

func TestListOrdersByLastModifiedDesc(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	for _, tc := range []struct{ id, modified string }{
		{"old", "2024-01-01T00:00:00.000Z"},
		{"new", "2024-03-01T00:00:00.000Z"},
		{"mid", "2024-02-01T00:00:00.000Z"},
	} {
		p := testsupport.Project(tc.id, tc.id)
		p.LastModified = tc.modified
		testsupport.MustInsert(t, s, p)
	}

	projects, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var ids []string
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmptyReturnsEmptySlice(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	projects, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Fatalf("expected empty slice, got %#v", projects)
	}
}

func TestInsertDuplicateFails(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	p := testsupport.Project("dup", "Dup")
	testsupport.MustInsert(t, s, p)

	err := s.Insert(context.Background(), p)
	var failure *store.Failure
	if !errors.As(err, &failure) || failure.Op != store.OpInsert {
		t.Fatalf("expected insert Failure, got %v", err)
	}

	if err := s.Insert(context.Background(), project.Project{}); err == nil {
		t.Fatal("expected missing id to fail")
	}
}

func TestUpdateAppliesOnlySetColumns(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	original := testsupport.Project("p-1", "Before")
	testsupport.MustInsert(t, s, original)

	title := "After"
	featured := true
	links := map[string]string{"demo": "https://demo.test"}
	if err := s.Update(ctx, "p-1", project.Patch{Title: &title, Featured: &featured, Links: &links}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "After" || !got.Featured {
		t.Fatalf("patch not applied: %#v", got)
	}
	if diff := cmp.Diff(links, got.Links); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
	if got.Description != original.Description || got.Slug != original.Slug {
		t.Fatalf("unset fields changed: %#v", got)
	}
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	title := "x"

	for name, err := range map[string]error{
		"update":       s.Update(ctx, "missing", project.Patch{Title: &title}),
		"empty update": s.Update(ctx, "missing", project.Patch{}),
		"delete":       s.Delete(ctx, "missing"),
	} {
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}

	_, err := s.Get(ctx, "missing")
	var failure *store.Failure
	if !errors.As(err, &failure) || failure.Op != store.OpFetch {
		t.Fatalf("expected fetch Failure, got %v", err)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.MustInsert(t, s, testsupport.Project("gone", "Gone"))

	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "gone"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected row to be gone, got %v", err)
	}
}

func TestMalformedColumnsAreFlagged(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	testsupport.MustInsert(t, s, testsupport.Project("p-1", "Broken"))
	_ = s.Close()

	db, err := sql.Open("sqlite", cfg.SQLite.Path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec(`UPDATE projects SET links = '{"demo":' WHERE id = 'p-1'`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}
	_ = db.Close()

	reopened, err := sqlite.OpenPath(context.Background(), cfg.SQLite.Path, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	projects, err := reopened.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected one project, got %d", len(projects))
	}
	p := projects[0]
	if len(p.Links) != 0 || len(p.Issues) != 1 || p.Issues[0].Column != project.ColumnLinks {
		t.Fatalf("expected flagged links column, got links=%v issues=%v", p.Links, p.Issues)
	}
	if len(p.Tags) != 1 {
		t.Fatalf("healthy columns should decode, got %v", p.Tags)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	s, err := sqlite.OpenPath(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	_ = s.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec(`UPDATE schema_version SET version = 99`); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := sqlite.OpenPath(context.Background(), path, nil); !errors.Is(err, sqlite.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
