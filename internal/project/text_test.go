package project_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"labdesk/internal/project"
)

func TestParseTags(t *testing.T) {
	got := project.ParseTags(" go, cli,, data ,")
	if diff := cmp.Diff([]string{"go", "cli", "data"}, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if got := project.ParseTags(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":       "hello-world",
		"  Café Déjà Vu  ":    "cafe-deja-vu",
		"Version 2.0 -- beta": "version-2-0-beta",
		"***":                 "",
	}
	for in, want := range cases {
		if got := project.Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatches(t *testing.T) {
	p := project.Project{Title: "Orbit Tracker", Description: "Follows SATELLITES", Tags: []string{"Space"}}
	for _, term := range []string{"", "orbit", "satellites", "SPACE", "  track "} {
		if !project.Matches(p, term) {
			t.Fatalf("expected %q to match", term)
		}
	}
	if project.Matches(p, "ocean") {
		t.Fatal("unexpected match")
	}

	list := []project.Project{p, {Title: "Ocean"}}
	if got := project.Filter(list, "ocean"); len(got) != 1 || got[0].Title != "Ocean" {
		t.Fatalf("unexpected filter result %#v", got)
	}
}

func TestValidateLinks(t *testing.T) {
	if err := project.ValidateLinks(map[string]string{"github": "https://github.com/x", "demo": ""}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []map[string]string{
		{"": "https://x.test"},
		{"demo": "not a url"},
		{"demo": "/relative"},
		{"demo": "https://a.test", " demo ": "https://b.test"},
	}
	for _, links := range bad {
		if err := project.ValidateLinks(links); !errors.Is(err, project.ErrInvalidLink) {
			t.Fatalf("expected ErrInvalidLink for %v, got %v", links, err)
		}
	}
}

func TestWithDefaultLinks(t *testing.T) {
	got := project.WithDefaultLinks(map[string]string{"github": "https://github.com/x", "blog": "https://b.test"})
	if len(got) != len(project.DefaultLinkKeys)+1 {
		t.Fatalf("unexpected link count %d", len(got))
	}
	if got["github"] != "https://github.com/x" || got["demo"] != "" {
		t.Fatalf("unexpected links %v", got)
	}
}

func TestSummarize(t *testing.T) {
	stats := project.Summarize([]project.Project{
		{Status: "Active", Featured: true},
		{Status: "active"},
		{Status: "DRAFT", Featured: true},
		{Status: "on-hold"},
		{},
	})
	if stats.Total != 5 || stats.Featured != 2 || stats.Active != 2 || stats.Draft != 1 {
		t.Fatalf("unexpected stats %#v", stats)
	}
	if diff := cmp.Diff([]string{"active", "(none)", "draft", "on-hold"}, stats.StatusKeys()); diff != "" {
		t.Fatalf("status keys (-want +got):\n%s", diff)
	}
}
