package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Column names of the complex, JSON-encoded fields.
const (
	ColumnTags       = "tags"
	ColumnTileStyles = "tile_styles"
	ColumnLinks      = "links"
	ColumnUpdates    = "updates"
)

// ErrColumnDecode marks a stored column whose JSON text could not be parsed.
var ErrColumnDecode = errors.New("column decode failed")

// ColumnIssue records a complex column that fell back to its empty value.
type ColumnIssue struct {
	Column string
	Err    error
}

func (i ColumnIssue) Error() string {
	return fmt.Sprintf("%s: %v", i.Column, i.Err)
}

func (i ColumnIssue) Unwrap() error { return ErrColumnDecode }

// RawColumns carries the complex columns of a stored row as read from the
// backend. Each value may be JSON text, a JSON string wrapping JSON text, or
// empty.
type RawColumns struct {
	Tags       []byte
	TileStyles []byte
	Links      []byte
	Updates    []byte
}

// DecodeColumns populates the complex fields of p from raw. Empty or null
// columns decode to their empty value; malformed columns do too, and are
// appended to p.Issues.
func (p *Project) DecodeColumns(raw RawColumns) {
	p.Tags = []string{}
	p.TileStyles = map[string]any{}
	p.Links = map[string]string{}
	p.Updates = []Update{}

	if err := decodeColumn(raw.Tags, &p.Tags); err != nil {
		p.Tags = []string{}
		p.Issues = append(p.Issues, ColumnIssue{Column: ColumnTags, Err: err})
	}
	if err := decodeColumn(raw.TileStyles, &p.TileStyles); err != nil {
		p.TileStyles = map[string]any{}
		p.Issues = append(p.Issues, ColumnIssue{Column: ColumnTileStyles, Err: err})
	}
	if err := decodeColumn(raw.Links, &p.Links); err != nil {
		p.Links = map[string]string{}
		p.Issues = append(p.Issues, ColumnIssue{Column: ColumnLinks, Err: err})
	}
	if err := decodeColumn(raw.Updates, &p.Updates); err != nil {
		p.Updates = []Update{}
		p.Issues = append(p.Issues, ColumnIssue{Column: ColumnUpdates, Err: err})
	}

	// A JSON null inside valid text leaves nil behind.
	p.Tags = nonNilSlice(p.Tags)
	if p.TileStyles == nil {
		p.TileStyles = map[string]any{}
	}
	if p.Links == nil {
		p.Links = map[string]string{}
	}
	if p.Updates == nil {
		p.Updates = []Update{}
	}
}

func decodeColumn(raw []byte, dst any) error {
	text := bytes.TrimSpace(raw)
	if len(text) == 0 || bytes.Equal(text, []byte("null")) {
		return nil
	}
	if text[0] == '"' {
		var inner string
		if err := json.Unmarshal(text, &inner); err != nil {
			return err
		}
		text = bytes.TrimSpace([]byte(inner))
		if len(text) == 0 {
			return nil
		}
	}
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	return dec.Decode(dst)
}

func nonNilSlice(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// EncodedColumns holds the complex fields serialized as JSON text for
// storage.
type EncodedColumns struct {
	Tags       string
	TileStyles string
	Links      string
	Updates    string
}

// EncodeColumns serializes the complex fields of p. Nil collections encode as
// their empty JSON form.
func EncodeColumns(p Project) (EncodedColumns, error) {
	p = p.WithDefaults()
	var out EncodedColumns
	var err error
	if out.Tags, err = encodeColumn(ColumnTags, p.Tags); err != nil {
		return out, err
	}
	if out.TileStyles, err = encodeColumn(ColumnTileStyles, p.TileStyles); err != nil {
		return out, err
	}
	if out.Links, err = encodeColumn(ColumnLinks, p.Links); err != nil {
		return out, err
	}
	if out.Updates, err = encodeColumn(ColumnUpdates, p.Updates); err != nil {
		return out, err
	}
	return out, nil
}

func encodeColumn(name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	return string(data), nil
}
