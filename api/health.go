package api

import (
	"net/http"
)

// Health is the liveness route controller
func (server *Server) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
