package api

import (
	"bytes"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/auth"
	"github.com/OnelioViera/drinking-app-v1/internal/ratelimit"
	"github.com/OnelioViera/drinking-app-v1/internal/search"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

// testEnvelope mirrors the response envelope with typed data.
type testEnvelope[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type testServer struct {
	t       *testing.T
	server  *Server
	store   *store.Store
	cleanup func()
}

// setupTestServer builds a full server over a temp-dir store. Login rate
// limiting is generous so only the dedicated test trips it.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "api-test-*")
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(tmpDir, "test.db"), nil, nil)
	require.NoError(t, err)

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)

	searchIndex, err := search.NewIndex(search.Options{
		DataPath: tmpDir,
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)

	journalService := service.NewJournalService(st, nil)
	journalService.SetSearchIndex(searchIndex)

	srv := NewServer(
		st,
		service.NewAuthService(st, tokenService, nil),
		journalService,
		service.NewPeriodService(st, nil),
		service.NewChatService(0),
		limiter,
		nil,
		nil,
	)

	return &testServer{
		t:      t,
		server: srv,
		store:  st,
		cleanup: func() {
			limiter.Stop()
			searchIndex.Close()
			st.Close()
			os.RemoveAll(tmpDir)
		},
	}
}

// do performs a request against the in-memory server.
func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

// registerUser creates an account through the API and returns its token.
func (ts *testServer) registerUser(email string) string {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":        email,
		"password":     "a long enough password",
		"display_name": "Test User",
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	var env testEnvelope[service.AuthResponse]
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(ts.t, env.Data.AccessToken)
	return env.Data.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
