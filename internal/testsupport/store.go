package testsupport

import (
	"context"
	"testing"

	"labdesk/internal/config"
	"labdesk/internal/logging"
	"labdesk/internal/project"
	"labdesk/internal/store/sqlite"
)

// MustOpenStore opens a sqlite.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// MustInsert stores p and fails the test on error.
func MustInsert(t testing.TB, s interface {
	Insert(context.Context, project.Project) error
}, p project.Project) {
	t.Helper()

	if err := s.Insert(context.Background(), p); err != nil {
		t.Fatalf("Insert %s: %v", p.ID, err)
	}
}

// Project returns a populated project with the given id and title.
func Project(id, title string) project.Project {
	return project.Project{
		ID:          id,
		Title:       title,
		Slug:        project.Slugify(title),
		Status:      project.StatusActive,
		Description: title + " description",
		Tags:        []string{"test"},
		TileStyles:  map[string]any{"accent": "#123456"},
		Links:       map[string]string{"github": "https://github.com/example/" + id},
		Updates:     []project.Update{},
	}
}
