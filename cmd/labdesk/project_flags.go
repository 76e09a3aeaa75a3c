package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"labdesk/internal/project"
)

// projectFlags are the field flags shared by add and edit. Only flags the
// user set are applied, after any --file document.
type projectFlags struct {
	file        string
	title       string
	slug        string
	status      string
	featured    bool
	description string
	summary     string
	tags        string
	image       string
	lastUpdated string
	tileStyles  string
}

func (f *projectFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "JSON document with project fields (- for stdin)")
	flags.StringVar(&f.title, "title", "", "Project title")
	flags.StringVar(&f.slug, "slug", "", "URL slug (derived from the title when empty)")
	flags.StringVar(&f.status, "status", "", "Status (active, draft, on-hold, ...)")
	flags.BoolVar(&f.featured, "featured", false, "Mark the project as featured")
	flags.StringVar(&f.description, "description", "", "Long description")
	flags.StringVar(&f.summary, "summary", "", "Short summary")
	flags.StringVar(&f.tags, "tags", "", "Comma-separated tags")
	flags.StringVar(&f.image, "image", "", "Image URL")
	flags.StringVar(&f.lastUpdated, "last-updated", "", "Free-form last updated label")
	flags.StringVar(&f.tileStyles, "tile-styles", "", "Tile styles as a JSON object")
}

// apply overlays the --file document and then the changed flags onto p.
// Fields missing from the document keep their current values.
func (f *projectFlags) apply(cmd *cobra.Command, p *project.Project) error {
	if strings.TrimSpace(f.file) != "" {
		if err := readProjectFile(cmd, f.file, p); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = strings.TrimSpace(f.title)
	}
	if flags.Changed("slug") {
		p.Slug = strings.TrimSpace(f.slug)
	}
	if flags.Changed("status") {
		p.Status = project.Status(strings.TrimSpace(f.status))
	}
	if flags.Changed("featured") {
		p.Featured = f.featured
	}
	if flags.Changed("description") {
		p.Description = f.description
	}
	if flags.Changed("summary") {
		p.Summary = f.summary
	}
	if flags.Changed("tags") {
		p.Tags = project.ParseTags(f.tags)
	}
	if flags.Changed("image") {
		p.Image = strings.TrimSpace(f.image)
	}
	if flags.Changed("last-updated") {
		p.LastUpdated = f.lastUpdated
	}
	if flags.Changed("tile-styles") {
		styles, err := decodeObject(f.tileStyles)
		if err != nil {
			return fmt.Errorf("--tile-styles: %w", err)
		}
		p.TileStyles = styles
	}
	return nil
}

func readProjectFile(cmd *cobra.Command, path string, p *project.Project) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = readAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	var doc project.Project
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	for key := range present {
		replaceField(p, doc, key)
	}
	return nil
}

// replaceField copies one top-level field named by its JSON key from doc onto
// p. Maps and slices are replaced whole, never merged.
func replaceField(p *project.Project, doc project.Project, key string) {
	switch key {
	case "id":
		p.ID = doc.ID
	case "title":
		p.Title = doc.Title
	case "slug":
		p.Slug = doc.Slug
	case "status":
		p.Status = doc.Status
	case "featured":
		p.Featured = doc.Featured
	case "hash":
		p.Hash = doc.Hash
	case "description":
		p.Description = doc.Description
	case "summary":
		p.Summary = doc.Summary
	case "tags":
		p.Tags = doc.Tags
	case "last_updated":
		p.LastUpdated = doc.LastUpdated
	case "image":
		p.Image = doc.Image
	case "tile_styles":
		p.TileStyles = doc.TileStyles
	case "links":
		p.Links = doc.Links
	case "updates":
		p.Updates = doc.Updates
	case "last_modified":
		p.LastModified = doc.LastModified
	}
}

func decodeObject(value string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
