package api

import (
	"encoding/json/v2"
	"errors"
	"net/http"

	"github.com/OnelioViera/drinking-app-v1/internal/http/response"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

// handleGetPeriod returns the caller's sobriety period.
func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := s.periodService.Get(r.Context(), getUserID(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrPeriodNotFound) {
			response.NotFound(w, "sobriety tracking has not started", s.logger)
			return
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, period, s.logger)
}

// handleStartPeriod begins (or re-anchors) sobriety tracking.
func (s *Server) handleStartPeriod(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeStartRequest(w, r)
	if !ok {
		return
	}

	period, err := s.periodService.Start(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, period, s.logger)
}

// handleResetPeriod restarts the period and increments the reset count.
func (s *Server) handleResetPeriod(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeStartRequest(w, r)
	if !ok {
		return
	}

	period, err := s.periodService.Reset(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, period, s.logger)
}

// decodeStartRequest parses the optional start body. An empty body means
// "start from now".
func (s *Server) decodeStartRequest(w http.ResponseWriter, r *http.Request) (service.StartRequest, bool) {
	var req service.StartRequest
	if r.ContentLength == 0 {
		return req, true
	}
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return req, false
	}
	return req, true
}
