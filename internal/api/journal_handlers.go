package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/OnelioViera/drinking-app-v1/internal/http/response"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
	"github.com/OnelioViera/drinking-app-v1/internal/trend"
)

// handleListEntries returns the caller's active entries, newest first.
// Soft-deleted entries never appear here.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journalService.List(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}

// handleCreateEntry stores a new journal entry for the caller.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEntryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.journalService.Create(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, entry, s.logger)
}

// handleGetEntry returns one entry by ID, soft-deleted or not.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	entry, err := s.journalService.Get(r.Context(), getUserID(r.Context()), entryID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleUpdateEntry applies a partial update to an entry.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	var req service.UpdateEntryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.journalService.Update(r.Context(), getUserID(r.Context()), entryID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleDeleteEntry soft-deletes an entry. The record stays fetchable by ID.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	if err := s.journalService.SoftDelete(r.Context(), getUserID(r.Context()), entryID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Message(w, "Entry deleted", s.logger)
}

// handlePurgeEntry permanently removes an entry.
func (s *Server) handlePurgeEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	if err := s.journalService.Purge(r.Context(), getUserID(r.Context()), entryID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Message(w, "Entry permanently deleted", s.logger)
}

// handleEntryTrend aggregates the caller's entries into chart series over the
// requested window (day, week, or month; week by default).
func (s *Server) handleEntryTrend(w http.ResponseWriter, r *http.Request) {
	window, err := trend.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	entries, err := s.journalService.List(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, trend.Aggregate(entries, window, time.Now()), s.logger)
}

// handleSearchEntries runs a full-text search over the caller's live
// entries. Query parameters: q, mood (repeatable), trigger (repeatable),
// limit, offset.
func (s *Server) handleSearchEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := service.SearchEntriesRequest{
		Query:    query.Get("q"),
		Moods:    query["mood"],
		Triggers: query["trigger"],
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			response.BadRequest(w, "Invalid limit", s.logger)
			return
		}
		req.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			response.BadRequest(w, "Invalid offset", s.logger)
			return
		}
		req.Offset = offset
	}

	result, err := s.journalService.Search(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
