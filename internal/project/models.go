package project

import (
	"strings"

	"labdesk/internal/fingerprint"
)

// Status is the free-form lifecycle label of a project. The dashboard knows
// the values below; others are stored verbatim.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on-hold"
	StatusCancelled Status = "cancelled"
	StatusDraft     Status = "draft"
)

// Is reports whether s names the same status as other, ignoring case and
// surrounding space.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(other))
}

// Project is one row of the projects table.
type Project struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Status       Status            `json:"status"`
	Featured     bool              `json:"featured"`
	Hash         string            `json:"hash"`
	Description  string            `json:"description"`
	Summary      string            `json:"summary"`
	Tags         []string          `json:"tags"`
	LastUpdated  string            `json:"last_updated"`
	Image        string            `json:"image"`
	TileStyles   map[string]any    `json:"tile_styles"`
	Links        map[string]string `json:"links"`
	Updates      []Update          `json:"updates"`
	LastModified string            `json:"last_modified"`

	// Issues lists complex columns that could not be decoded when the
	// project was read from a store.
	Issues []ColumnIssue `json:"-"`
}

// Update is a dated entry in a project's changelog.
type Update struct {
	Date    string `json:"date"`
	Hash    string `json:"hash"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Record returns the update as a fingerprintable record.
func (u Update) Record() fingerprint.Record {
	return fingerprint.Record{
		"date":    u.Date,
		"hash":    u.Hash,
		"title":   u.Title,
		"content": u.Content,
	}
}

// ComputeHash fingerprints the update with exclude removed.
func (u Update) ComputeHash(exclude string) (string, error) {
	return fingerprint.Hex(u.Record(), exclude)
}

// Record returns the project content as a fingerprintable record. Nil
// collections are rendered as their empty form so a freshly decoded row and
// an in-memory draft agree. last_modified is store bookkeeping and is left
// out; every save would otherwise change the content hash.
func (p Project) Record() fingerprint.Record {
	tags := make([]any, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tags = append(tags, tag)
	}
	links := make(map[string]any, len(p.Links))
	for k, v := range p.Links {
		links[k] = v
	}
	styles := p.TileStyles
	if styles == nil {
		styles = map[string]any{}
	}
	updates := make([]any, 0, len(p.Updates))
	for _, u := range p.Updates {
		updates = append(updates, map[string]any(u.Record()))
	}
	return fingerprint.Record{
		"id":           p.ID,
		"title":        p.Title,
		"slug":         p.Slug,
		"status":       string(p.Status),
		"featured":     p.Featured,
		"hash":         p.Hash,
		"description":  p.Description,
		"summary":      p.Summary,
		"tags":         tags,
		"last_updated": p.LastUpdated,
		"image":        p.Image,
		"tile_styles":  styles,
		"links":        links,
		"updates":      updates,
	}
}

// ComputeHash fingerprints the project content with exclude removed.
func (p Project) ComputeHash(exclude string) (string, error) {
	return fingerprint.Hex(p.Record(), exclude)
}

// Clone returns a deep copy of the collections held by p.
func (p Project) Clone() Project {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.Links != nil {
		out.Links = make(map[string]string, len(p.Links))
		for k, v := range p.Links {
			out.Links[k] = v
		}
	}
	if p.TileStyles != nil {
		out.TileStyles = make(map[string]any, len(p.TileStyles))
		for k, v := range p.TileStyles {
			out.TileStyles[k] = v
		}
	}
	if p.Updates != nil {
		out.Updates = append([]Update(nil), p.Updates...)
	}
	if p.Issues != nil {
		out.Issues = append([]ColumnIssue(nil), p.Issues...)
	}
	return out
}

// WithDefaults fills nil collections with their empty values, matching the
// blank project the dashboard form starts from.
func (p Project) WithDefaults() Project {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.TileStyles == nil {
		p.TileStyles = map[string]any{}
	}
	if p.Links == nil {
		p.Links = map[string]string{}
	}
	if p.Updates == nil {
		p.Updates = []Update{}
	}
	return p
}
