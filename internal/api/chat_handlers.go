package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/OnelioViera/drinking-app-v1/internal/http/response"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
)

// handleChat returns a canned support reply for the posted message.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.chatService.Respond(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
