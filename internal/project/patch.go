package project

import "sort"

// Patch is a partial update. Nil fields are left untouched by the store.
type Patch struct {
	Title        *string
	Slug         *string
	Status       *Status
	Featured     *bool
	Hash         *string
	Description  *string
	Summary      *string
	Tags         *[]string
	LastUpdated  *string
	Image        *string
	TileStyles   *map[string]any
	Links        *map[string]string
	Updates      *[]Update
	LastModified *string
}

// FullPatch returns a patch that sets every editable field of p.
func FullPatch(p Project) Patch {
	p = p.Clone().WithDefaults()
	return Patch{
		Title:        &p.Title,
		Slug:         &p.Slug,
		Status:       &p.Status,
		Featured:     &p.Featured,
		Hash:         &p.Hash,
		Description:  &p.Description,
		Summary:      &p.Summary,
		Tags:         &p.Tags,
		LastUpdated:  &p.LastUpdated,
		Image:        &p.Image,
		TileStyles:   &p.TileStyles,
		Links:        &p.Links,
		Updates:      &p.Updates,
		LastModified: &p.LastModified,
	}
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	cols, err := p.Columns()
	return err == nil && len(cols) == 0
}

// Columns maps each set field to its column value. Complex fields are encoded
// as JSON text the same way full rows are.
func (p Patch) Columns() (map[string]any, error) {
	cols := make(map[string]any)
	setString := func(name string, v *string) {
		if v != nil {
			cols[name] = *v
		}
	}
	setString("title", p.Title)
	setString("slug", p.Slug)
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Featured != nil {
		cols["featured"] = *p.Featured
	}
	setString("hash", p.Hash)
	setString("description", p.Description)
	setString("summary", p.Summary)
	setString("last_updated", p.LastUpdated)
	setString("image", p.Image)
	setString("last_modified", p.LastModified)

	if p.Tags != nil {
		text, err := encodeColumn(ColumnTags, nonNilSlice(*p.Tags))
		if err != nil {
			return nil, err
		}
		cols[ColumnTags] = text
	}
	if p.TileStyles != nil {
		styles := *p.TileStyles
		if styles == nil {
			styles = map[string]any{}
		}
		text, err := encodeColumn(ColumnTileStyles, styles)
		if err != nil {
			return nil, err
		}
		cols[ColumnTileStyles] = text
	}
	if p.Links != nil {
		links := *p.Links
		if links == nil {
			links = map[string]string{}
		}
		text, err := encodeColumn(ColumnLinks, links)
		if err != nil {
			return nil, err
		}
		cols[ColumnLinks] = text
	}
	if p.Updates != nil {
		updates := *p.Updates
		if updates == nil {
			updates = []Update{}
		}
		text, err := encodeColumn(ColumnUpdates, updates)
		if err != nil {
			return nil, err
		}
		cols[ColumnUpdates] = text
	}
	return cols, nil
}

// Apply copies every set field onto target.
func (p Patch) Apply(target *Project) {
	if target == nil {
		return
	}
	if p.Title != nil {
		target.Title = *p.Title
	}
	if p.Slug != nil {
		target.Slug = *p.Slug
	}
	if p.Status != nil {
		target.Status = *p.Status
	}
	if p.Featured != nil {
		target.Featured = *p.Featured
	}
	if p.Hash != nil {
		target.Hash = *p.Hash
	}
	if p.Description != nil {
		target.Description = *p.Description
	}
	if p.Summary != nil {
		target.Summary = *p.Summary
	}
	if p.Tags != nil {
		target.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.LastUpdated != nil {
		target.LastUpdated = *p.LastUpdated
	}
	if p.Image != nil {
		target.Image = *p.Image
	}
	if p.TileStyles != nil {
		target.TileStyles = *p.TileStyles
	}
	if p.Links != nil {
		target.Links = *p.Links
	}
	if p.Updates != nil {
		target.Updates = append([]Update{}, (*p.Updates)...)
	}
	if p.LastModified != nil {
		target.LastModified = *p.LastModified
	}
}

// SortedColumnNames returns the keys of cols in a stable order for building
// statements.
func SortedColumnNames(cols map[string]any) []string {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EditableColumns lists every column a patch may set.
var EditableColumns = []string{
	"title", "slug", "status", "featured", "hash", "description", "summary",
	ColumnTags, "last_updated", "image", ColumnTileStyles, ColumnLinks,
	ColumnUpdates, "last_modified",
}
