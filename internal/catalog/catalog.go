package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"labdesk/internal/fingerprint"
	"labdesk/internal/logging"
	"labdesk/internal/project"
	"labdesk/internal/store"
)

// ErrInvalid marks a draft that cannot be saved.
var ErrInvalid = errors.New("invalid project")

// DefaultStatus is assigned to new projects without one.
const DefaultStatus = project.StatusDraft

// Catalog coordinates project edits against a Store.
type Catalog struct {
	store    store.Store
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	exclude  string
	location *time.Location
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger; the component field is added automatically.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) { c.logger = logging.NewComponentLogger(logger, "catalog") }
}

// WithClock overrides the time source used for last_modified.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides how ids are assigned to new projects.
func WithIDGenerator(newID func() string) Option {
	return func(c *Catalog) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// WithExcludeField sets the field left out of content hashes.
func WithExcludeField(field string) Option {
	return func(c *Catalog) {
		if strings.TrimSpace(field) != "" {
			c.exclude = field
		}
	}
}

// WithLocation sets the zone used for update dates entered without one.
func WithLocation(loc *time.Location) Option {
	return func(c *Catalog) {
		if loc != nil {
			c.location = loc
		}
	}
}

// New returns a Catalog over s.
func New(s store.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:    s,
		logger:   logging.NewComponentLogger(nil, "catalog"),
		now:      time.Now,
		newID:    uuid.NewString,
		exclude:  fingerprint.DefaultExcludeField,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *Catalog) Store() store.Store { return c.store }

// ExcludeField returns the field left out of content hashes.
func (c *Catalog) ExcludeField() string { return c.exclude }

// UpdateLog returns an update editor using the catalog's hashing settings.
func (c *Catalog) UpdateLog() project.UpdateLog {
	return project.UpdateLog{Exclude: c.exclude, Location: c.location}
}

// List returns the stored projects matching term, newest first. Columns that
// failed to decode are logged.
func (c *Catalog) List(ctx context.Context, term string) ([]project.Project, error) {
	projects, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		c.reportIssues(ctx, p)
	}
	return project.Filter(projects, term), nil
}

// Get returns one project.
func (c *Catalog) Get(ctx context.Context, id string) (project.Project, error) {
	p, err := store.Get(ctx, c.store, id)
	if err != nil {
		return project.Project{}, err
	}
	c.reportIssues(ctx, p)
	return p, nil
}

// Seal returns draft with every update sealed and the content hash
// recomputed. The draft is not modified.
func (c *Catalog) Seal(draft project.Project) (project.Project, error) {
	p := draft.Clone().WithDefaults()
	updates, err := c.UpdateLog().SealAll(p.Updates)
	if err != nil {
		return project.Project{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	p.Updates = updates
	hash, err := p.ComputeHash(c.exclude)
	if err != nil {
		return project.Project{}, fmt.Errorf("hash project: %w", err)
	}
	p.Hash = hash
	return p, nil
}

// Add stores a new project. Missing ids are generated, a missing slug is
// derived from the title and a missing status defaults to DefaultStatus.
func (c *Catalog) Add(ctx context.Context, draft project.Project) (project.Project, error) {
	draft.ID = strings.TrimSpace(draft.ID)
	if draft.ID == "" {
		draft.ID = c.newID()
	}
	if strings.TrimSpace(draft.Slug) == "" {
		draft.Slug = project.Slugify(draft.Title)
	}
	if strings.TrimSpace(string(draft.Status)) == "" {
		draft.Status = DefaultStatus
	}
	if err := validate(draft); err != nil {
		return project.Project{}, err
	}

	p, err := c.Seal(draft)
	if err != nil {
		return project.Project{}, err
	}
	p.LastModified = project.FormatTimestamp(c.now())
	p.Issues = nil

	if err := c.store.Insert(ctx, p); err != nil {
		return project.Project{}, err
	}
	logging.WithContext(logging.WithProjectID(ctx, p.ID), c.logger).Info("project added",
		logging.String("title", p.Title),
		logging.String("hash", p.Hash),
	)
	return p, nil
}

// Result describes the outcome of Update.
type Result struct {
	Project      project.Project
	PreviousHash string
	// Unchanged is set when the content hash matched the stored hash and no
	// write was made.
	Unchanged bool
}

// Update replaces the content of project id with draft. The write is skipped
// when the recomputed hash equals the stored one.
func (c *Catalog) Update(ctx context.Context, id string, draft project.Project) (Result, error) {
	current, err := c.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return c.save(ctx, current, draft)
}

// Edit loads project id, applies mutate to a copy and saves the result.
func (c *Catalog) Edit(ctx context.Context, id string, mutate func(*project.Project) error) (Result, error) {
	current, err := c.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}
	draft := current.Clone()
	if err := mutate(&draft); err != nil {
		return Result{}, err
	}
	return c.save(ctx, current, draft)
}

func (c *Catalog) save(ctx context.Context, current, draft project.Project) (Result, error) {
	draft.ID = current.ID
	if err := validate(draft); err != nil {
		return Result{}, err
	}
	p, err := c.Seal(draft)
	if err != nil {
		return Result{}, err
	}

	logger := logging.WithContext(logging.WithProjectID(ctx, current.ID), c.logger)
	result := Result{PreviousHash: current.Hash}
	if current.Hash != "" && p.Hash == current.Hash {
		result.Project = current
		result.Unchanged = true
		logger.Debug("project unchanged, skipping write", logging.String("hash", p.Hash))
		return result, nil
	}

	if err := unresolvedIssues(current, draft); err != nil {
		return Result{}, err
	}

	p.LastModified = project.FormatTimestamp(c.now())
	p.Issues = nil
	if err := c.store.Update(ctx, current.ID, project.FullPatch(p)); err != nil {
		return Result{}, err
	}
	result.Project = p
	logger.Info("project updated",
		logging.String("previous_hash", current.Hash),
		logging.String("hash", p.Hash),
	)
	return result, nil
}

// Delete removes project id.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	logging.WithContext(logging.WithProjectID(ctx, id), c.logger).Info("project deleted")
	return nil
}

// Stats summarizes every stored project.
func (c *Catalog) Stats(ctx context.Context) (project.Stats, error) {
	projects, err := c.store.List(ctx)
	if err != nil {
		return project.Stats{}, err
	}
	return project.Summarize(projects), nil
}

// Dirty reports whether draft differs in content from stored. Stored hashes
// and bookkeeping fields are ignored; both sides are hashed.
func (c *Catalog) Dirty(draft, stored project.Project) (bool, error) {
	a, err := draft.ComputeHash(c.exclude)
	if err != nil {
		return false, err
	}
	b, err := stored.ComputeHash(c.exclude)
	if err != nil {
		return false, err
	}
	return a != b, nil
}

func (c *Catalog) reportIssues(ctx context.Context, p project.Project) {
	if len(p.Issues) == 0 {
		return
	}
	logger := logging.WithContext(logging.WithProjectID(ctx, p.ID), c.logger)
	for _, issue := range p.Issues {
		logger.Warn("stored column could not be decoded; showing empty value",
			logging.String("column", issue.Column),
			logging.Error(issue.Err),
		)
	}
}

func validate(p project.Project) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if err := project.ValidateLinks(p.Links); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// unresolvedIssues reports the columns of current that failed to decode and
// that draft leaves empty. Saving those would replace the stored text with
// the empty fallback.
func unresolvedIssues(current, draft project.Project) error {
	var errs []error
	for _, issue := range current.Issues {
		if columnSet(draft, issue.Column) {
			continue
		}
		errs = append(errs, issue)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("refusing to overwrite unreadable columns of %s: %w", current.ID, errors.Join(errs...))
}

func columnSet(p project.Project, column string) bool {
	switch column {
	case project.ColumnTags:
		return len(p.Tags) > 0
	case project.ColumnTileStyles:
		return len(p.TileStyles) > 0
	case project.ColumnLinks:
		return len(p.Links) > 0
	case project.ColumnUpdates:
		return len(p.Updates) > 0
	default:
		return false
	}
}
