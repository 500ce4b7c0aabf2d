package journal

import (
	"bytes"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
)

// RemoteStore syncs entries against the API server over HTTP. Every failure
// is mapped into the domain error taxonomy so callers never see raw
// transport errors.
type RemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemoteStore creates a remote backend for the given server and bearer
// token.
func NewRemoteStore(baseURL, token string) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope mirrors the server's response shape.
type envelope struct {
	Data    jsontext.Value `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Success bool           `json:"success"`
}

// Connect probes the health endpoint. A server that does not answer here
// will not answer anything else either.
func (r *RemoteStore) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "build health request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeFetchFailed, "server unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domainerrors.FetchFailed(fmt.Sprintf("server unhealthy: %s", resp.Status))
	}
	return nil
}

// List fetches the active entries.
func (r *RemoteStore) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	if err := r.do(ctx, http.MethodGet, "/api/v1/entries/", nil, &entries, domainerrors.CodeFetchFailed); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.JournalEntry{}
	}
	return entries, nil
}

// Create posts a new entry.
func (r *RemoteStore) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	body := map[string]any{
		"occurred_at": entry.OccurredAt,
		"mood":        entry.Mood,
		"triggers":    entry.Triggers,
		"notes":       entry.Notes,
	}

	var created domain.JournalEntry
	if err := r.do(ctx, http.MethodPost, "/api/v1/entries/", body, &created, domainerrors.CodePersistFailed); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update puts the entry's editable fields.
func (r *RemoteStore) Update(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	body := map[string]any{
		"occurred_at": entry.OccurredAt,
		"mood":        entry.Mood,
		"triggers":    entry.Triggers,
		"notes":       entry.Notes,
	}

	var updated domain.JournalEntry
	if err := r.do(ctx, http.MethodPut, "/api/v1/entries/"+entry.ID, body, &updated, domainerrors.CodePersistFailed); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete soft-deletes the entry server-side.
func (r *RemoteStore) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/v1/entries/"+id, nil, nil, domainerrors.CodePersistFailed)
}

// Purge permanently removes the entry server-side.
func (r *RemoteStore) Purge(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/v1/entries/"+id+"/permanent", nil, nil, domainerrors.CodePersistFailed)
}

// Period fetches the current sobriety period.
func (r *RemoteStore) Period(ctx context.Context) (*domain.SobrietyPeriod, error) {
	var period domain.SobrietyPeriod
	if err := r.do(ctx, http.MethodGet, "/api/v1/sobriety/", nil, &period, domainerrors.CodeFetchFailed); err != nil {
		return nil, err
	}
	return &period, nil
}

// ResetPeriod restarts the sobriety period at startedAt. A zero startedAt
// lets the server pick the reset instant.
func (r *RemoteStore) ResetPeriod(ctx context.Context, startedAt time.Time) (*domain.SobrietyPeriod, error) {
	var body any
	if !startedAt.IsZero() {
		body = map[string]any{"started_at": startedAt}
	}

	var period domain.SobrietyPeriod
	if err := r.do(ctx, http.MethodPost, "/api/v1/sobriety/reset", body, &period, domainerrors.CodePersistFailed); err != nil {
		return nil, err
	}
	return &period, nil
}

// do runs one request and decodes the enveloped result into out (if non-nil).
// failCode is the taxonomy code for transport-level failures: fetch for
// reads, persist for writes.
func (r *RemoteStore) do(ctx context.Context, method, path string, body, out any, failCode domainerrors.Code) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domainerrors.Wrap(err, failCode, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return domainerrors.Wrap(err, failCode, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domainerrors.Wrap(err, failCode, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.UnmarshalRead(resp.Body, &env); err != nil {
		return domainerrors.Wrap(err, failCode, "decode response")
	}

	if resp.StatusCode >= 400 || !env.Success {
		return remoteError(resp.StatusCode, env, failCode)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domainerrors.Wrap(err, failCode, "decode payload")
		}
	}
	return nil
}

// remoteError maps a server error envelope into the domain taxonomy.
func remoteError(status int, env envelope, failCode domainerrors.Code) error {
	msg := env.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch domainerrors.Code(env.Code) {
	case domainerrors.CodeNotFound:
		return domainerrors.NotFound(msg)
	case domainerrors.CodeValidation:
		return domainerrors.Validation(msg)
	case domainerrors.CodeUnauthorized, domainerrors.CodeInvalidCredentials:
		return domainerrors.Unauthorized(msg)
	case domainerrors.CodeConflict:
		return domainerrors.Conflict(msg)
	}

	switch status {
	case http.StatusNotFound:
		return domainerrors.NotFound(msg)
	case http.StatusUnauthorized:
		return domainerrors.Unauthorized(msg)
	case http.StatusBadRequest:
		return domainerrors.Validation(msg)
	}

	return &domainerrors.Error{Code: failCode, Message: msg}
}
