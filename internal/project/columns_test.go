package project_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"labdesk/internal/project"
)

func TestEncodeDecodeColumns(t *testing.T) {
	p := sampleProject()
	enc, err := project.EncodeColumns(p)
	if err != nil {
		t.Fatalf("EncodeColumns: %v", err)
	}
	if enc.Tags != `["space","go"]` {
		t.Fatalf("unexpected tags text %s", enc.Tags)
	}

	var decoded project.Project
	decoded.DecodeColumns(project.RawColumns{
		Tags:       []byte(enc.Tags),
		TileStyles: []byte(enc.TileStyles),
		Links:      []byte(enc.Links),
		Updates:    []byte(enc.Updates),
	})
	if len(decoded.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", decoded.Issues)
	}
	if diff := cmp.Diff(p.Tags, decoded.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Links, decoded.Links); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Updates, decoded.Updates); diff != "" {
		t.Fatalf("updates mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeColumnsDefaultsNilCollections(t *testing.T) {
	enc, err := project.EncodeColumns(project.Project{})
	if err != nil {
		t.Fatalf("EncodeColumns: %v", err)
	}
	want := project.EncodedColumns{Tags: "[]", TileStyles: "{}", Links: "{}", Updates: "[]"}
	if diff := cmp.Diff(want, enc); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
}

func TestDecodeColumnsAcceptsWrappedJSONText(t *testing.T) {
	wrapped, _ := json.Marshal(`["a","b"]`)
	var p project.Project
	p.DecodeColumns(project.RawColumns{Tags: wrapped, Links: []byte(`{"demo":"https://x.test"}`)})
	if diff := cmp.Diff([]string{"a", "b"}, p.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if p.Links["demo"] != "https://x.test" {
		t.Fatalf("unexpected links %v", p.Links)
	}
}

func TestDecodeColumnsFlagsMalformedText(t *testing.T) {
	var p project.Project
	p.DecodeColumns(project.RawColumns{
		Tags:       []byte(`["ok"`),
		TileStyles: []byte(`[]`),
		Links:      []byte(`null`),
		Updates:    nil,
	})
	if len(p.Tags) != 0 || p.TileStyles == nil || p.Links == nil || p.Updates == nil {
		t.Fatalf("expected empty defaults, got %#v", p)
	}
	if len(p.Issues) != 2 {
		t.Fatalf("expected two issues, got %v", p.Issues)
	}
	got := []string{p.Issues[0].Column, p.Issues[1].Column}
	if diff := cmp.Diff([]string{project.ColumnTags, project.ColumnTileStyles}, got); diff != "" {
		t.Fatalf("issue columns (-want +got):\n%s", diff)
	}
	if !errors.Is(p.Issues[0], project.ErrColumnDecode) {
		t.Fatal("issues should match ErrColumnDecode")
	}
}

func TestPatchColumns(t *testing.T) {
	title := "New"
	featured := false
	tags := []string{"a"}
	patch := project.Patch{Title: &title, Featured: &featured, Tags: &tags}

	cols, err := patch.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	want := map[string]any{"title": "New", "featured": false, "tags": `["a"]`}
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if patch.Empty() {
		t.Fatal("patch with fields should not be empty")
	}
	if !(project.Patch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	if diff := cmp.Diff([]string{"featured", "tags", "title"}, project.SortedColumnNames(cols)); diff != "" {
		t.Fatalf("sorted names (-want +got):\n%s", diff)
	}
}

func TestFullPatchAppliesEveryField(t *testing.T) {
	src := sampleProject()
	var dst project.Project
	dst.ID = "other"
	project.FullPatch(src).Apply(&dst)

	src.ID = "other"
	if diff := cmp.Diff(src, dst); diff != "" {
		t.Fatalf("apply mismatch (-want +got):\n%s", diff)
	}

	cols, err := project.FullPatch(src).Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if len(cols) != len(project.EditableColumns) {
		t.Fatalf("expected %d columns, got %d", len(project.EditableColumns), len(cols))
	}
}
