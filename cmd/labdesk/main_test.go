package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"labdesk/internal/project"
	"labdesk/internal/store"
	"labdesk/internal/testsupport"
)

func TestCLIProjectLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.mustRun(t, "add", "--id", "p1", "--title", "Alpha Lab", "--tags", "go, data,,")
	requireContains(t, out, "Added p1")

	out = env.mustRun(t, "list")
	requireContains(t, out, "Alpha Lab")
	requireContains(t, out, "Draft")

	out = env.mustRun(t, "list", "--json")
	var listed []project.Project
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Slug != "alpha-lab" || listed[0].Status != project.StatusDraft {
		t.Fatalf("unexpected listing %+v", listed)
	}
	if got := strings.Join(listed[0].Tags, ","); got != "go,data" {
		t.Fatalf("tags = %q", got)
	}

	out = env.mustRun(t, "edit", "p1", "--status", "active", "--featured")
	requireContains(t, out, "Updated p1")
	out = env.mustRun(t, "edit", "p1", "--status", "active")
	requireContains(t, out, "No changes to p1")

	out = env.mustRun(t, "show", "p1")
	requireContains(t, out, "Active")
	requireContains(t, out, "Featured:      yes")

	out = env.mustRun(t, "list", "--search", "nothing-matches")
	requireContains(t, out, "No projects found")

	out = env.mustRun(t, "stats", "--json")
	var stats project.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 1 || stats.Active != 1 || stats.Featured != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	env.mustRun(t, "delete", "p1")
	_, err := env.run(t, "delete", "p1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCLIAddRequiresTitle(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := env.run(t, "add", "--status", "active"); err == nil {
		t.Fatal("expected add without title to fail")
	}
}

func TestCLIAddFromFile(t *testing.T) {
	env := setupCLITestEnv(t)
	draft := filepath.Join(t.TempDir(), "draft.json")
	doc := `{"id":"f1","title":"From File","status":"active","tile_styles":{"span":2},"links":{"github":"https://github.com/example/f1"}}`
	if err := os.WriteFile(draft, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	env.mustRun(t, "add", "--file", draft, "--summary", "flag wins")

	p := env.showJSON(t, "f1")
	if p.Summary != "flag wins" || p.Status != project.StatusActive {
		t.Fatalf("unexpected project %+v", p)
	}
	if p.Links["github"] != "https://github.com/example/f1" {
		t.Fatalf("links = %v", p.Links)
	}
	want, err := p.ComputeHash("hash")
	if err != nil {
		t.Fatal(err)
	}
	if p.Hash != want {
		t.Fatalf("stored hash %s, recomputed %s", p.Hash, want)
	}
}

func TestCLIEditFromFileReplacesCollections(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "add", "--id", "p1", "--title", "Alpha", "--tags", "go")
	env.mustRun(t, "links", "set", "p1", "github", "https://github.com/example/alpha")
	env.mustRun(t, "updates", "add", "p1", "--title", "v1", "--content", "old body", "--date", "2024-03-01T12:00:00Z")

	draft := filepath.Join(t.TempDir(), "edit.json")
	doc := `{"links":{"demo":"https://d.example"},"updates":[{"title":"v2"}]}`
	if err := os.WriteFile(draft, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	env.mustRun(t, "edit", "p1", "--file", draft)

	p := env.showJSON(t, "p1")
	if len(p.Links) != 1 || p.Links["demo"] != "https://d.example" {
		t.Fatalf("links = %v, want only demo", p.Links)
	}
	if len(p.Updates) != 1 || p.Updates[0].Title != "v2" || p.Updates[0].Content != "" || p.Updates[0].Date != "" {
		t.Fatalf("updates = %+v, want a single bare v2 entry", p.Updates)
	}
	if p.Title != "Alpha" || len(p.Tags) != 1 {
		t.Fatalf("fields missing from the file changed: %+v", p)
	}
}

func TestCLIEditDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "add", "--id", "p1", "--title", "Alpha")
	before := env.showJSON(t, "p1")

	out := env.mustRun(t, "edit", "p1", "--title", "Alpha", "--dry-run")
	requireContains(t, out, "No changes to p1")

	out = env.mustRun(t, "edit", "p1", "--title", "Beta", "--dry-run")
	requireContains(t, out, "p1 would change")

	after := env.showJSON(t, "p1")
	if after.Title != "Alpha" || after.Hash != before.Hash || after.LastModified != before.LastModified {
		t.Fatalf("dry run wrote the project: %+v", after)
	}
}

func TestCLIUpdatesAndLinks(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "add", "--id", "p1", "--title", "Alpha")

	env.mustRun(t, "updates", "add", "p1", "--title", "v1", "--content", "Shipped", "--date", "2024-03-01T12:00:00Z")
	p := env.showJSON(t, "p1")
	if len(p.Updates) != 1 {
		t.Fatalf("updates = %+v", p.Updates)
	}
	if p.Updates[0].Date != "2024-03-01T12:00:00.000Z" {
		t.Fatalf("date = %q", p.Updates[0].Date)
	}
	if p.Updates[0].Hash != "3a6cc356918ad52ba77b2a4442dd2be7" {
		t.Fatalf("update hash = %q", p.Updates[0].Hash)
	}

	env.mustRun(t, "updates", "edit", "p1", "1", "--content", "Shipped again")
	p = env.showJSON(t, "p1")
	if p.Updates[0].Content != "Shipped again" || p.Updates[0].Title != "v1" {
		t.Fatalf("edited update = %+v", p.Updates[0])
	}
	if p.Updates[0].Hash == "3a6cc356918ad52ba77b2a4442dd2be7" {
		t.Fatal("update hash should change with content")
	}

	if _, err := env.run(t, "updates", "rm", "p1", "2"); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := env.run(t, "updates", "rm", "p1", "0"); err == nil {
		t.Fatal("expected invalid number error")
	}
	env.mustRun(t, "updates", "rm", "p1", "1")
	if p = env.showJSON(t, "p1"); len(p.Updates) != 0 {
		t.Fatalf("updates after rm = %+v", p.Updates)
	}

	env.mustRun(t, "links", "set", "p1", "github", "https://github.com/example/alpha")
	if _, err := env.run(t, "links", "set", "p1", "demo", "not a url"); !errors.Is(err, project.ErrInvalidLink) {
		t.Fatalf("expected invalid link, got %v", err)
	}
	env.mustRun(t, "links", "defaults", "p1")
	p = env.showJSON(t, "p1")
	if len(p.Links) != len(project.DefaultLinkKeys) || p.Links["github"] != "https://github.com/example/alpha" {
		t.Fatalf("links = %v", p.Links)
	}
	env.mustRun(t, "links", "rm", "p1", "demo")
	if _, err := env.run(t, "links", "rm", "p1", "demo"); err == nil {
		t.Fatal("expected error removing missing link")
	}
}

func TestCLIHash(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env.configPath, strings.NewReader(`{"title":"A","tags":["x","y"],"hash":"zzz"}`), "hash", "--canonical")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	want := "{\"tags\":[\"x\",\"y\"],\"title\":\"A\"}\n1f8f80cf9d7c0ce9913b6d9dea2e6bd4\n"
	if out != want {
		t.Fatalf("hash output %q, want %q", out, want)
	}

	out, err = runCLI(t, env.configPath, strings.NewReader(`{}`), "hash", "-")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.TrimSpace(out) != "99914b932bd37a50b983c5e7c90ae93b" {
		t.Fatalf("empty object hash %q", out)
	}

	if _, err := runCLI(t, env.configPath, strings.NewReader(`{"a":1} {"b":2}`), "hash"); err == nil {
		t.Fatal("expected error for multiple documents")
	}
}

func TestCLIHashIgnoresBrokenConfig(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(broken, []byte("no_such_key = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, broken, strings.NewReader(`{"hash":"x"}`), "hash")
	if err != nil {
		t.Fatalf("hash with broken config: %v", err)
	}
	if strings.TrimSpace(out) != "99914b932bd37a50b983c5e7c90ae93b" {
		t.Fatalf("hash output %q", out)
	}
	if _, err := runCLI(t, broken, nil, "list"); err == nil {
		t.Fatal("expected list to reject the broken config")
	}
}

func TestCLIVerify(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "add", "--id", "p1", "--title", "Alpha")

	out := env.mustRun(t, "verify")
	requireContains(t, out, "all stored hashes match")

	s := testsupport.MustOpenStore(t, env.cfg)
	stale := "00000000000000000000000000000000"
	if err := s.Update(context.Background(), "p1", project.Patch{Hash: &stale}); err != nil {
		t.Fatalf("corrupt hash: %v", err)
	}

	out, err := env.run(t, "verify")
	if !errors.Is(err, errVerifyFailed) {
		t.Fatalf("expected verify failure, got %v", err)
	}
	requireContains(t, out, "p1")
	requireContains(t, out, "1 mismatches")
}

func TestCLIExportImport(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "add", "--id", "p1", "--title", "Alpha")
	env.mustRun(t, "add", "--id", "p2", "--title", "Beta")

	file := filepath.Join(t.TempDir(), "export.json")
	env.mustRun(t, "export", "--output", file)
	env.mustRun(t, "delete", "p2")

	out := env.mustRun(t, "import", file)
	requireContains(t, out, "Imported 1 projects, skipped 1 existing")

	p := env.showJSON(t, "p2")
	if p.Title != "Beta" {
		t.Fatalf("imported project %+v", p)
	}
}

func TestCLIRESTBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad key"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","title":"Remote","status":"active","tags":"[\"x\"]","tile_styles":"{}","links":"{}","updates":"[]"}]`))
	}))
	defer srv.Close()

	env := setupCLITestEnv(t, testsupport.WithREST(srv.URL, "secret"))
	out := env.mustRun(t, "list")
	requireContains(t, out, "Remote")

	bad := setupCLITestEnv(t, testsupport.WithREST(srv.URL, "wrong"))
	_, err := bad.run(t, "list")
	var failure *store.Failure
	if !errors.As(err, &failure) || failure.Message != "bad key" {
		t.Fatalf("expected store failure, got %v", err)
	}
}

func TestCLIDoctor(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "doctor")
	requireContains(t, out, "Data directory")
	requireContains(t, out, "[OK] 0 projects reachable")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.mustRun(t, "config", "validate")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out = env.mustRun(t, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
}
