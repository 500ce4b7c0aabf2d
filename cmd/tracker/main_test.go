package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTestServer(t *testing.T, resets *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"status":"healthy"},"success":true}`))
	})
	mux.HandleFunc("/api/v1/sobriety/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"owner_id":"usr-1","started_at":"2026-01-01T00:00:00Z","reset_count":0},"success":true}`))
	})
	mux.HandleFunc("/api/v1/sobriety/reset", func(w http.ResponseWriter, r *http.Request) {
		resets.Add(1)
		w.Write([]byte(`{"data":{"owner_id":"usr-1","started_at":"2026-08-30T00:00:00Z","reset_count":1},"success":true}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunResetConfirmed(t *testing.T) {
	var resets atomic.Int32
	srv := resetTestServer(t, &resets)

	err := runReset(context.Background(), srv.URL, "token", "", strings.NewReader("yes\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), resets.Load())
}

func TestRunResetDeclined(t *testing.T) {
	var resets atomic.Int32
	srv := resetTestServer(t, &resets)

	// Anything but yes cancels; nothing reaches the server.
	err := runReset(context.Background(), srv.URL, "token", "", strings.NewReader("no\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(0), resets.Load())
}

func TestRunResetRequiresRemote(t *testing.T) {
	err := runReset(context.Background(), "", "", "", strings.NewReader("yes\n"))
	require.Error(t, err)
}
