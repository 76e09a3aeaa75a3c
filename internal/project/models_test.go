package project_test

import (
	"encoding/json"
	"testing"

	"labdesk/internal/fingerprint"
	"labdesk/internal/project"
)

func sampleProject() project.Project {
	return project.Project{
		ID:          "p-1",
		Title:       "Orbit",
		Slug:        "orbit",
		Status:      project.StatusActive,
		Featured:    true,
		Description: "Satellite tracker",
		Tags:        []string{"space", "go"},
		TileStyles:  map[string]any{"color": "#fff"},
		Links:       map[string]string{"github": "https://github.com/example/orbit"},
		Updates: []project.Update{
			{Date: "2024-03-01T12:00:00.000Z", Title: "v1", Content: "Shipped"},
		},
		LastModified: "2024-03-02T00:00:00.000Z",
	}
}

func TestProjectHashIgnoresStoredHashAndLastModified(t *testing.T) {
	p := sampleProject()
	want, err := p.ComputeHash(fingerprint.DefaultExcludeField)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	p.Hash = want
	p.LastModified = "2030-01-01T00:00:00.000Z"
	got, err := p.ComputeHash(fingerprint.DefaultExcludeField)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if got != want {
		t.Fatalf("hash changed after storing it: %s != %s", got, want)
	}

	p.Summary = "new summary"
	changed, err := p.ComputeHash(fingerprint.DefaultExcludeField)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if changed == want {
		t.Fatal("expected summary edit to change the hash")
	}
}

func TestProjectHashTreatsNilAndEmptyCollectionsAlike(t *testing.T) {
	bare := project.Project{ID: "x", Title: "T"}
	defaults := bare.WithDefaults()

	a, err := bare.ComputeHash("hash")
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	b, err := defaults.ComputeHash("hash")
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if a != b {
		t.Fatalf("nil and empty collections hashed differently: %s vs %s", a, b)
	}
}

func TestProjectHashStableAcrossJSONRoundTrip(t *testing.T) {
	p := sampleProject()
	p.TileStyles = map[string]any{"opacity": 0.5, "span": 2}
	before, err := p.ComputeHash("hash")
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded project.Project
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	after, err := decoded.ComputeHash("hash")
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if before != after {
		t.Fatalf("hash changed across JSON round trip: %s vs %s", before, after)
	}
}

func TestUpdateHashGolden(t *testing.T) {
	u := project.Update{Date: "2024-03-01T12:00:00.000Z", Title: "v1", Content: "Shipped", Hash: "stale"}
	got, err := u.ComputeHash("hash")
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	const want = "3a6cc356918ad52ba77b2a4442dd2be7"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestCloneDoesNotShareCollections(t *testing.T) {
	p := sampleProject()
	c := p.Clone()
	c.Tags[0] = "changed"
	c.Links["github"] = "changed"
	c.Updates[0].Title = "changed"
	if p.Tags[0] != "space" || p.Links["github"] == "changed" || p.Updates[0].Title != "v1" {
		t.Fatalf("clone shares state with original: %#v", p)
	}
}

func TestStatusIsIgnoresCase(t *testing.T) {
	if !project.Status(" Active ").Is(project.StatusActive) {
		t.Fatal("expected case-insensitive match")
	}
	if project.Status("draft").Is(project.StatusActive) {
		t.Fatal("unexpected match")
	}
}
