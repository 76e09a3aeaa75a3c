package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"labdesk/internal/config"
	"labdesk/internal/logging"
	"labdesk/internal/project"
	"labdesk/internal/store"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Store talks to {baseURL}/rest/v1/{table}.
type Store struct {
	baseURL string
	table   string
	apiKey  string
	client  HTTPDoer
	logger  *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New constructs a REST store using the provided HTTP backend. A nil client
// uses http.DefaultClient.
func New(baseURL, table, apiKey string, client HTTPDoer, logger *slog.Logger) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		table:   table,
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
		logger:  logging.NewComponentLogger(logger, "store").With(logging.String(logging.FieldBackend, config.BackendREST)),
	}
}

// NewFromConfig builds a store from the [rest] and [store] sections.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Store {
	client := &http.Client{Timeout: cfg.RESTTimeout()}
	return New(cfg.REST.URL, cfg.Store.Table, cfg.REST.APIKey, client, logger)
}

// List returns every project ordered by last_modified, newest first.
func (s *Store) List(ctx context.Context) ([]project.Project, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "last_modified.desc")

	var rows []map[string]json.RawMessage
	if err := s.doJSONRequest(ctx, store.OpFetch, http.MethodGet, query, nil, "", &rows); err != nil {
		return nil, err
	}
	projects := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		p, err := decodeRow(row)
		if err != nil {
			return nil, store.Fail(store.OpFetch, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Get fetches one project by id.
func (s *Store) Get(ctx context.Context, id string) (project.Project, error) {
	query := idFilter(id)
	query.Set("select", "*")

	var rows []map[string]json.RawMessage
	if err := s.doJSONRequest(ctx, store.OpFetch, http.MethodGet, query, nil, "", &rows); err != nil {
		return project.Project{}, err
	}
	if len(rows) == 0 {
		return project.Project{}, store.NotFound(store.OpFetch, id)
	}
	p, err := decodeRow(rows[0])
	if err != nil {
		return project.Project{}, store.Fail(store.OpFetch, err)
	}
	return p, nil
}

// Insert posts a single-row batch.
func (s *Store) Insert(ctx context.Context, p project.Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return &store.Failure{Op: store.OpInsert, Message: "project id is required"}
	}
	row, err := project.FullPatch(p).Columns()
	if err != nil {
		return store.Fail(store.OpInsert, err)
	}
	row["id"] = p.ID

	if err := s.doJSONRequest(ctx, store.OpInsert, http.MethodPost, nil, []map[string]any{row}, "return=minimal", nil); err != nil {
		return err
	}
	s.logger.Debug("project inserted", logging.ProjectID(p.ID))
	return nil
}

// Update patches the row with id. A response with no rows means the id does
// not exist.
func (s *Store) Update(ctx context.Context, id string, patch project.Patch) error {
	cols, err := patch.Columns()
	if err != nil {
		return store.Fail(store.OpUpdate, err)
	}
	if len(cols) == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			var failure *store.Failure
			if errors.As(err, &failure) {
				failure.Op = store.OpUpdate
			}
			return err
		}
		return nil
	}

	var rows []json.RawMessage
	if err := s.doJSONRequest(ctx, store.OpUpdate, http.MethodPatch, idFilter(id), cols, "return=representation", &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.NotFound(store.OpUpdate, id)
	}
	s.logger.Debug("project updated",
		logging.ProjectID(id),
		logging.Any("columns", project.SortedColumnNames(cols)),
	)
	return nil
}

// Delete removes the row with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	var rows []json.RawMessage
	if err := s.doJSONRequest(ctx, store.OpDelete, http.MethodDelete, idFilter(id), nil, "return=representation", &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.NotFound(store.OpDelete, id)
	}
	s.logger.Debug("project deleted", logging.ProjectID(id))
	return nil
}

// Close is a no-op; the HTTP client owns no per-store resources.
func (s *Store) Close() error { return nil }

func idFilter(id string) url.Values {
	query := url.Values{}
	query.Set("id", "eq."+id)
	return query
}

func (s *Store) endpoint(query url.Values) string {
	endpoint := s.baseURL + "/rest/v1/" + url.PathEscape(s.table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (s *Store) doJSONRequest(ctx context.Context, op, method string, query url.Values, body any, prefer string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return store.Fail(op, fmt.Errorf("marshal request body: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.endpoint(query), reader)
	if err != nil {
		return store.Fail(op, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("request failed",
			logging.Op(op),
			logging.String("method", method),
			logging.Error(err),
		)
		return &store.Failure{Op: op, Message: "network error: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &store.Failure{
			Op:      op,
			Message: errorMessage(resp.StatusCode, bodyBytes),
			Err:     &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))},
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return store.Fail(op, fmt.Errorf("read response: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return store.Fail(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// StatusError carries a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// errorMessage prefers the PostgREST "message" field and falls back to the
// raw body.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
