package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"labdesk/internal/project"
)

func decodeRow(row map[string]json.RawMessage) (project.Project, error) {
	var p project.Project
	var err error
	text := func(key string) string {
		if err != nil {
			return ""
		}
		var value string
		value, err = stringField(row, key)
		return value
	}
	p.ID = text("id")
	p.Title = text("title")
	p.Slug = text("slug")
	p.Status = project.Status(text("status"))
	p.Hash = text("hash")
	p.Description = text("description")
	p.Summary = text("summary")
	p.LastUpdated = text("last_updated")
	p.Image = text("image")
	p.LastModified = text("last_modified")
	if err != nil {
		return project.Project{}, err
	}
	if p.Featured, err = boolField(row, "featured"); err != nil {
		return project.Project{}, err
	}

	p.DecodeColumns(project.RawColumns{
		Tags:       row[project.ColumnTags],
		TileStyles: row[project.ColumnTileStyles],
		Links:      row[project.ColumnLinks],
		Updates:    row[project.ColumnUpdates],
	})
	return p, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// stringField reads a text column. Numbers are accepted verbatim since ids
// may be numeric in hand-made tables.
func stringField(row map[string]json.RawMessage, key string) (string, error) {
	raw, ok := row[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err == nil {
		return value, nil
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String(), nil
	}
	return "", fmt.Errorf("column %s: expected text, got %s", key, string(raw))
}

func boolField(row map[string]json.RawMessage, key string) (bool, error) {
	raw, ok := row[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, fmt.Errorf("column %s: expected boolean, got %s", key, string(raw))
	}
	return value, nil
}
