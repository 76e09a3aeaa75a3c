package catalog

import (
	"context"
	"fmt"
)

// Mismatch is a stored hash that does not match the content it covers.
type Mismatch struct {
	ProjectID string
	Title     string
	// UpdateIndex is the position of the update entry, or -1 when the
	// mismatch is the project hash itself.
	UpdateIndex int
	Stored      string
	Computed    string
}

// Subject names what the mismatch refers to.
func (m Mismatch) Subject() string {
	if m.UpdateIndex < 0 {
		return "project"
	}
	return fmt.Sprintf("update %d", m.UpdateIndex)
}

// Verify recomputes every project and update hash and reports those that
// differ from what is stored. A missing stored hash is reported too.
func (c *Catalog) Verify(ctx context.Context) ([]Mismatch, error) {
	projects, err := c.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, p := range projects {
		for i, u := range p.Updates {
			computed, err := u.ComputeHash(c.exclude)
			if err != nil {
				return nil, fmt.Errorf("project %s update %d: %w", p.ID, i, err)
			}
			if computed != u.Hash {
				mismatches = append(mismatches, Mismatch{
					ProjectID: p.ID, Title: p.Title, UpdateIndex: i,
					Stored: u.Hash, Computed: computed,
				})
			}
		}
		computed, err := p.ComputeHash(c.exclude)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", p.ID, err)
		}
		if computed != p.Hash {
			mismatches = append(mismatches, Mismatch{
				ProjectID: p.ID, Title: p.Title, UpdateIndex: -1,
				Stored: p.Hash, Computed: computed,
			})
		}
	}
	return mismatches, nil
}
