package api

import "net/http"

// handleEvents streams journal and sobriety change notifications to the
// caller over Server-Sent Events. Delivery is scoped to the authenticated
// user.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.sseHandler.Stream(w, r, getUserID(r.Context()))
}
