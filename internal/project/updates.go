package project

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form the dashboard stores: UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateOnlyLayout,
}

// dateOnlyLayout values are read as UTC midnight, as browsers do for ISO
// date-only strings.
const dateOnlyLayout = "2006-01-02"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeDate parses value in any accepted layout and renders it in
// TimestampLayout. Date-only values are UTC midnight; other layouts without a
// zone are read in loc (time.Local when nil). An empty value stays empty.
func NormalizeDate(value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		switch layout {
		case time.RFC3339Nano, dateOnlyLayout:
			t, err = time.Parse(layout, value)
		default:
			t, err = time.ParseInLocation(layout, value, loc)
		}
		if err == nil {
			return FormatTimestamp(t), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", value)
}

// SealUpdate normalizes the update date and stores the fingerprint of the
// update, computed with exclude removed, in its Hash field.
func SealUpdate(u Update, exclude string, loc *time.Location) (Update, error) {
	date, err := NormalizeDate(u.Date, loc)
	if err != nil {
		return Update{}, err
	}
	u.Date = date
	hash, err := u.ComputeHash(exclude)
	if err != nil {
		return Update{}, fmt.Errorf("hash update: %w", err)
	}
	u.Hash = hash
	return u, nil
}

// UpdateLog edits a project's update entries. Every entry it writes is
// sealed; the slice it was built from is never modified.
type UpdateLog struct {
	Exclude  string
	Location *time.Location
}

// Add appends a sealed copy of u.
func (l UpdateLog) Add(updates []Update, u Update) ([]Update, error) {
	sealed, err := SealUpdate(u, l.Exclude, l.Location)
	if err != nil {
		return nil, err
	}
	out := make([]Update, 0, len(updates)+1)
	out = append(out, updates...)
	return append(out, sealed), nil
}

// Replace swaps the entry at idx for a sealed copy of u.
func (l UpdateLog) Replace(updates []Update, idx int, u Update) ([]Update, error) {
	if idx < 0 || idx >= len(updates) {
		return nil, fmt.Errorf("update index %d out of range (have %d)", idx, len(updates))
	}
	sealed, err := SealUpdate(u, l.Exclude, l.Location)
	if err != nil {
		return nil, err
	}
	out := append([]Update(nil), updates...)
	out[idx] = sealed
	return out, nil
}

// Remove drops the entry at idx.
func (l UpdateLog) Remove(updates []Update, idx int) ([]Update, error) {
	if idx < 0 || idx >= len(updates) {
		return nil, fmt.Errorf("update index %d out of range (have %d)", idx, len(updates))
	}
	out := make([]Update, 0, len(updates)-1)
	out = append(out, updates[:idx]...)
	return append(out, updates[idx+1:]...), nil
}

// SealAll seals every entry in updates.
func (l UpdateLog) SealAll(updates []Update) ([]Update, error) {
	out := make([]Update, 0, len(updates))
	for i, u := range updates {
		sealed, err := SealUpdate(u, l.Exclude, l.Location)
		if err != nil {
			return nil, fmt.Errorf("update %d: %w", i, err)
		}
		out = append(out, sealed)
	}
	return out, nil
}
